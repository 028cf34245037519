package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/models"
)

// ListUtangs возвращает все записи в порядке добавления.
func (r *StateRepository) ListUtangs(ctx context.Context) ([]models.Utang, error) {
	state, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Utangs, nil
}

// AddUtang добавляет одну запись.
func (r *StateRepository) AddUtang(ctx context.Context, utang models.Utang) error {
	return r.mutate(ctx, func(state *models.AppState) error {
		state.Utangs = append(state.Utangs, utang)
		return nil
	})
}

// AddUtangBatch добавляет пачку записей (раскрытый кредит) одной записью
// агрегата: либо сохраняются все взносы, либо ни одного, и сбой
// возвращается вызывающему.
func (r *StateRepository) AddUtangBatch(ctx context.Context, utangs []models.Utang) error {
	if len(utangs) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalid)
	}
	return r.mutate(ctx, func(state *models.AppState) error {
		state.Utangs = append(state.Utangs, utangs...)
		return nil
	})
}

// UpdateUtang целиком заменяет запись по идентификатору.
func (r *StateRepository) UpdateUtang(ctx context.Context, utang models.Utang) error {
	return r.mutate(ctx, func(state *models.AppState) error {
		for i := range state.Utangs {
			if state.Utangs[i].ID == utang.ID {
				state.Utangs[i] = utang
				return nil
			}
		}
		return ErrNotFound
	})
}

// DeleteUtangs удаляет записи по списку идентификаторов и возвращает
// число удаленных. Платежная история по ним не трогается.
func (r *StateRepository) DeleteUtangs(ctx context.Context, ids []uuid.UUID) (int, error) {
	selected := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	deleted := 0
	err := r.mutate(ctx, func(state *models.AppState) error {
		kept := state.Utangs[:0]
		for _, u := range state.Utangs {
			if selected[u.ID] {
				deleted++
				continue
			}
			kept = append(kept, u)
		}
		if deleted == 0 {
			return ErrNotFound
		}
		state.Utangs = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// SelectUtangs возвращает записи по списку идентификаторов, сохраняя
// порядок хранения.
func (r *StateRepository) SelectUtangs(ctx context.Context, ids []uuid.UUID) ([]models.Utang, error) {
	selected := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	state, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Utang, 0, len(ids))
	for _, u := range state.Utangs {
		if selected[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

// ConfirmPayment записывает платеж: по каждой позиции корзины добавляется
// запись истории, затем все выбранные записи переводятся в paid с общей
// меткой времени. Агрегат пишется один раз; частичного состояния после
// успешного вызова не бывает.
func (r *StateRepository) ConfirmPayment(ctx context.Context, items []PaymentItem, now time.Time) ([]models.PaymentHistory, time.Time, error) {
	if len(items) == 0 {
		return nil, time.Time{}, fmt.Errorf("%w: empty payment batch", ErrInvalid)
	}

	paidAt := now.UTC()
	history := make([]models.PaymentHistory, 0, len(items))

	err := r.mutate(ctx, func(state *models.AppState) error {
		byID := make(map[uuid.UUID]*models.Utang, len(state.Utangs))
		for i := range state.Utangs {
			byID[state.Utangs[i].ID] = &state.Utangs[i]
		}

		for _, item := range items {
			utang, ok := byID[item.UtangID]
			if !ok {
				return fmt.Errorf("%w: utang %s", ErrNotFound, item.UtangID)
			}
			if utang.Status != models.UtangStatusPending {
				return fmt.Errorf("%w: utang %s is not pending", ErrInvalid, item.UtangID)
			}

			notes := defaultPaymentNotes(utang.Type)
			if item.Notes != nil {
				notes = *item.Notes
			}

			history = append(history, models.PaymentHistory{
				ID:          uuid.New(),
				UtangID:     utang.ID,
				UtangLabel:  utang.Label,
				UtangType:   utang.Type,
				AmountPaid:  item.Amount,
				PaymentDate: paidAt,
				Notes:       &notes,
				CreatedAt:   paidAt,
			})
		}

		state.Payments = append(state.Payments, history...)

		for _, item := range items {
			utang := byID[item.UtangID]
			utang.Status = models.UtangStatusPaid
			paid := paidAt
			utang.PaidAt = &paid
		}
		return nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return history, paidAt, nil
}

// PaymentItem — позиция подтверждаемого платежа.
type PaymentItem struct {
	UtangID uuid.UUID
	Amount  float64
	Notes   *string
}

func defaultPaymentNotes(utangType models.UtangType) string {
	if utangType == models.UtangTypeCreditCard {
		return "Credit card payment"
	}
	return "Loan payment"
}
