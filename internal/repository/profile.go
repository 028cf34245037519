package repository

import (
	"context"
	"time"

	"example.com/utang-tracker/backend/internal/models"
)

// GetProfile возвращает профиль пользователя, nil если он еще не создан.
func (r *StateRepository) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	state, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Profile, nil
}

// SaveProfile создает или обновляет единственный профиль. CreatedAt
// выставляется один раз, последующие сохранения двигают только UpdatedAt.
func (r *StateRepository) SaveProfile(ctx context.Context, name string, income *float64) (models.UserProfile, error) {
	var saved models.UserProfile
	err := r.mutate(ctx, func(state *models.AppState) error {
		now := time.Now().UTC()
		if state.Profile == nil {
			state.Profile = &models.UserProfile{CreatedAt: now}
		}
		state.Profile.Name = name
		state.Profile.Income = income
		state.Profile.UpdatedAt = now
		saved = *state.Profile
		return nil
	})
	if err != nil {
		return models.UserProfile{}, err
	}
	return saved, nil
}
