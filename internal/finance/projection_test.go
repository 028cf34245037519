package finance

import (
	"errors"
	"testing"
	"time"
)

// TestProjectPayoff проверяет расчет срока погашения с процентами.
func TestProjectPayoff(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	projection, err := ProjectPayoff(10000, 1000, 24, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if projection.Months != 12 {
		t.Fatalf("expected 12 months, got %d", projection.Months)
	}
	if projection.Capped {
		t.Fatal("expected projection to not be capped")
	}

	want := now.AddDate(0, 12, 0)
	if !projection.PayoffDate.Equal(want) {
		t.Fatalf("expected payoff date %s, got %s", want, projection.PayoffDate)
	}
}

// TestProjectPayoffZeroRate проверяет беспроцентный случай.
func TestProjectPayoffZeroRate(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	projection, err := ProjectPayoff(1200, 100, 0, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if projection.Months != 12 {
		t.Fatalf("expected 12 months, got %d", projection.Months)
	}
}

// TestProjectPayoffPaymentTooLow проверяет отказ, когда платеж не
// покрывает проценты.
func TestProjectPayoffPaymentTooLow(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	_, err := ProjectPayoff(10000, 100, 24, now)
	if !errors.Is(err, ErrPaymentTooLow) {
		t.Fatalf("expected ErrPaymentTooLow, got %v", err)
	}
}

// TestProjectPayoffCapped проверяет потолок прогноза.
func TestProjectPayoffCapped(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	projection, err := ProjectPayoff(100000, 1, 0, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !projection.Capped {
		t.Fatal("expected projection to be capped")
	}
	if projection.Months != MaxPayoffMonths {
		t.Fatalf("expected %d months, got %d", MaxPayoffMonths, projection.Months)
	}
	want := now.AddDate(0, MaxPayoffMonths, 0)
	if !projection.PayoffDate.Equal(want) {
		t.Fatalf("expected capped payoff date %s, got %s", want, projection.PayoffDate)
	}
}

// TestProjectPayoffInvalidInput проверяет отклонение неверных входных данных.
func TestProjectPayoffInvalidInput(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	if _, err := ProjectPayoff(0, 100, 10, now); err == nil {
		t.Fatal("expected error for zero total amount")
	}
	if _, err := ProjectPayoff(1000, 0, 10, now); err == nil {
		t.Fatal("expected error for zero monthly payment")
	}
	if _, err := ProjectPayoff(1000, 100, 150, now); err == nil {
		t.Fatal("expected error for rate above the maximum")
	}
	if _, err := ProjectPayoff(1000, 100, -1, now); err == nil {
		t.Fatal("expected error for negative rate")
	}
}
