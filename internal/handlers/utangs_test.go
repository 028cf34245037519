package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/models"
)

// TestResolveFinalDateExplicit проверяет разбор явной финальной даты.
func TestResolveFinalDateExplicit(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	req := CreateUtangRequest{FinalPaymentDate: "2026-09-15"}

	got, err := resolveFinalDate(req, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Format(dateLayout) != "2026-09-15" {
		t.Fatalf("unexpected date: %s", got.Format(dateLayout))
	}
}

// TestResolveFinalDateMonths проверяет расчет даты по сроку в месяцах.
func TestResolveFinalDateMonths(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	req := CreateUtangRequest{MonthsToPayOff: 6}

	got, err := resolveFinalDate(req, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Format(dateLayout) != "2026-09-10" {
		t.Fatalf("unexpected date: %s", got.Format(dateLayout))
	}
}

// TestResolveFinalDateInvalid проверяет отказ без срока и при неверном
// формате даты.
func TestResolveFinalDateInvalid(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	if _, err := resolveFinalDate(CreateUtangRequest{}, now); err == nil {
		t.Fatal("expected error when neither option is set")
	}
	if _, err := resolveFinalDate(CreateUtangRequest{FinalPaymentDate: "15/09/2026"}, now); err == nil {
		t.Fatal("expected error for wrong date format")
	}
}

// TestParseUUIDs проверяет разбор списка идентификаторов.
func TestParseUUIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	ids, err := parseUUIDs([]string{a.String(), b.String()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if _, err := parseUUIDs([]string{"not-a-uuid"}); err == nil {
		t.Fatal("expected error for malformed id")
	}
}

// TestToUtangResponse проверяет вычисляемые поля ответа.
func TestToUtangResponse(t *testing.T) {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	utang := models.Utang{
		ID:               uuid.New(),
		Label:            "Card",
		Type:             models.UtangTypeCreditCard,
		Amount:           12500.5,
		DueDate:          time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		FinalPaymentDate: time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:           models.UtangStatusPending,
	}

	got := toUtangResponse(utang, now)
	if !got.Overdue {
		t.Fatal("expected overdue flag")
	}
	if got.DaysUntilDue != -5 {
		t.Fatalf("expected -5 days, got %d", got.DaysUntilDue)
	}
	if got.AmountDisplay != "₱12,500.50" {
		t.Fatalf("unexpected display amount: %s", got.AmountDisplay)
	}
	if got.DueDate != "2026-03-10" {
		t.Fatalf("unexpected due date: %s", got.DueDate)
	}
}
