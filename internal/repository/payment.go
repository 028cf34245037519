package repository

import (
	"context"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/models"
)

// ListPayments возвращает журнал платежей в порядке добавления.
func (r *StateRepository) ListPayments(ctx context.Context) ([]models.PaymentHistory, error) {
	state, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Payments, nil
}

// DeletePayment удаляет одну запись журнала. Связанная запись долга не
// меняется: журнал ссылается на нее без владения.
func (r *StateRepository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return r.mutate(ctx, func(state *models.AppState) error {
		for i := range state.Payments {
			if state.Payments[i].ID == id {
				state.Payments = append(state.Payments[:i], state.Payments[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
