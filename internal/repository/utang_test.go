package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/models"
)

// TestAddUtangBatch проверяет добавление раскрытого кредита одной записью.
func TestAddUtangBatch(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	batch := []models.Utang{
		testUtang("Loan (1/3)", models.UtangStatusPending),
		testUtang("Loan (2/3)", models.UtangStatusPending),
		testUtang("Loan (3/3)", models.UtangStatusPending),
	}
	if err := repo.AddUtangBatch(ctx, batch); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	utangs, err := repo.ListUtangs(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(utangs) != 3 {
		t.Fatalf("expected 3 utangs, got %d", len(utangs))
	}

	if err := repo.AddUtangBatch(ctx, nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty batch, got %v", err)
	}
}

// TestUpdateUtang проверяет замену записи и отказ по чужому идентификатору.
func TestUpdateUtang(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	utang := testUtang("Before", models.UtangStatusPending)
	if err := repo.AddUtang(ctx, utang); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	utang.Label = "After"
	utang.Amount = 2000
	if err := repo.UpdateUtang(ctx, utang); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	utangs, err := repo.ListUtangs(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if utangs[0].Label != "After" || utangs[0].Amount != 2000 {
		t.Fatalf("expected updated record, got %+v", utangs[0])
	}

	missing := testUtang("Ghost", models.UtangStatusPending)
	if err := repo.UpdateUtang(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestDeleteUtangs проверяет удаление по списку идентификаторов.
func TestDeleteUtangs(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	keep := testUtang("Keep", models.UtangStatusPending)
	drop := testUtang("Drop", models.UtangStatusPending)
	if err := repo.AddUtangBatch(ctx, []models.Utang{keep, drop}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	deleted, err := repo.DeleteUtangs(ctx, []uuid.UUID{drop.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	utangs, err := repo.ListUtangs(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(utangs) != 1 || utangs[0].ID != keep.ID {
		t.Fatalf("unexpected remaining utangs: %+v", utangs)
	}

	if _, err := repo.DeleteUtangs(ctx, []uuid.UUID{uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestConfirmPayment проверяет атомарную запись платежа: история плюс
// смена статусов с общей меткой времени.
func TestConfirmPayment(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first := testUtang("Loan (1/3)", models.UtangStatusPending)
	second := testUtang("Loan (2/3)", models.UtangStatusPending)
	third := testUtang("Loan (3/3)", models.UtangStatusPending)
	if err := repo.AddUtangBatch(ctx, []models.Utang{first, second, third}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	now := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	history, paidAt, err := repo.ConfirmPayment(ctx, []PaymentItem{
		{UtangID: first.ID, Amount: 1000},
		{UtangID: second.ID, Amount: 1000},
	}, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}
	for _, h := range history {
		if !h.PaymentDate.Equal(paidAt) {
			t.Fatalf("expected shared payment date %s, got %s", paidAt, h.PaymentDate)
		}
		if h.Notes == nil || *h.Notes != "Loan payment" {
			t.Fatalf("expected default loan notes, got %v", h.Notes)
		}
	}

	state, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(state.Payments) != 2 {
		t.Fatalf("expected 2 stored payments, got %d", len(state.Payments))
	}
	for _, u := range state.Utangs {
		switch u.ID {
		case first.ID, second.ID:
			if u.Status != models.UtangStatusPaid {
				t.Fatalf("expected %s to be paid", u.Label)
			}
			if u.PaidAt == nil || !u.PaidAt.Equal(paidAt) {
				t.Fatalf("expected shared paid-at timestamp on %s", u.Label)
			}
		case third.ID:
			if u.Status != models.UtangStatusPending {
				t.Fatalf("expected %s to stay pending", u.Label)
			}
		}
	}
}

// TestConfirmPaymentRejectsNonPending проверяет отказ всей корзины без
// изменения состояния.
func TestConfirmPaymentRejectsNonPending(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	pending := testUtang("Pending", models.UtangStatusPending)
	paid := testUtang("Paid", models.UtangStatusPaid)
	if err := repo.AddUtangBatch(ctx, []models.Utang{pending, paid}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	now := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	_, _, err := repo.ConfirmPayment(ctx, []PaymentItem{
		{UtangID: pending.ID, Amount: 1000},
		{UtangID: paid.ID, Amount: 1000},
	}, now)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	state, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(state.Payments) != 0 {
		t.Fatalf("expected no history after rejected batch, got %d", len(state.Payments))
	}
	for _, u := range state.Utangs {
		if u.ID == pending.ID && u.Status != models.UtangStatusPending {
			t.Fatal("expected pending utang to stay untouched")
		}
	}

	if _, _, err := repo.ConfirmPayment(ctx, nil, now); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty batch, got %v", err)
	}
}
