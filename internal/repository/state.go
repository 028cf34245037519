package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"example.com/utang-tracker/backend/internal/cryptobox"
	"example.com/utang-tracker/backend/internal/models"
	"example.com/utang-tracker/backend/internal/storage"
)

// StateKey — единственный ключ хранилища: весь агрегат читается и
// перезаписывается целиком на каждой мутации.
const StateKey = "UTANG_FREE_DATA"

const containerVersion = 2

// stateContainer — сохраняемая форма агрегата: секции utangs, payments и
// profile упакованы в конверты своих доменов, флаги лежат открыто.
type stateContainer struct {
	Version        int       `json:"version"`
	Utangs         string    `json:"utangs"`
	Payments       string    `json:"payments"`
	Profile        string    `json:"profile,omitempty"`
	IsFirstTime    bool      `json:"is_first_time"`
	LastCalculated time.Time `json:"last_calculated"`
}

// StateRepository — единственный писатель агрегата. Мьютекс изолирует
// гонку read-modify-write в одном узком адаптере; вся бизнес-логика
// работает с копией состояния в памяти.
type StateRepository struct {
	store storage.Store
	codec *cryptobox.Codec

	mu sync.Mutex
}

// NewStateRepository создает репозиторий состояния поверх хранилища и кодека.
func NewStateRepository(store storage.Store, codec *cryptobox.Codec) *StateRepository {
	return &StateRepository{store: store, codec: codec}
}

// Load читает агрегат. Отсутствие данных дает свежее состояние первого
// запуска; нечитаемый блоб — ErrUnreadable, без попыток угадать.
func (r *StateRepository) Load(ctx context.Context) (models.AppState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Save перезаписывает агрегат целиком.
func (r *StateRepository) Save(ctx context.Context, state models.AppState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, state)
}

// Reset удаляет сохраненный агрегат и все секреты шифрования. Операция
// необратима.
func (r *StateRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Remove(ctx, StateKey); err != nil {
		return err
	}
	return r.codec.ResetKeys()
}

// mutate выполняет цикл "прочитать — изменить — записать" под мьютексом.
// Каждая мутация сбрасывает флаг первого запуска и обновляет
// LastCalculated.
func (r *StateRepository) mutate(ctx context.Context, fn func(*models.AppState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(&state); err != nil {
		return err
	}

	state.IsFirstTime = false
	state.LastCalculated = time.Now().UTC()
	return r.save(ctx, state)
}

func (r *StateRepository) load(ctx context.Context) (models.AppState, error) {
	blob, err := r.store.Get(ctx, StateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return models.NewAppState(), nil
	}
	if err != nil {
		return models.AppState{}, err
	}

	var container stateContainer
	if err := json.Unmarshal(blob, &container); err == nil && container.Version == containerVersion {
		return r.openContainer(container)
	}

	// Данные старых версий: либо конверт на весь агрегат, либо вообще
	// открытый JSON. Принимаются один раз и пересохраняются в текущем
	// виде при следующей записи.
	if cryptobox.IsEncoded(string(blob)) {
		plaintext, err := r.codec.Decode(string(blob), cryptobox.DomainDebt)
		if err != nil {
			return models.AppState{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		blob = plaintext
	}

	var state models.AppState
	if err := json.Unmarshal(blob, &state); err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	normalize(&state)
	return state, nil
}

func (r *StateRepository) save(ctx context.Context, state models.AppState) error {
	normalize(&state)

	utangsEnv, err := r.encodeSection(state.Utangs, cryptobox.DomainDebt)
	if err != nil {
		return err
	}

	paymentsEnv, err := r.encodeSection(state.Payments, cryptobox.DomainPayment)
	if err != nil {
		return err
	}

	container := stateContainer{
		Version:        containerVersion,
		Utangs:         utangsEnv,
		Payments:       paymentsEnv,
		IsFirstTime:    state.IsFirstTime,
		LastCalculated: state.LastCalculated,
	}

	if state.Profile != nil {
		profileEnv, err := r.encodeSection(state.Profile, cryptobox.DomainProfile)
		if err != nil {
			return err
		}
		container.Profile = profileEnv
	}

	blob, err := json.Marshal(container)
	if err != nil {
		return fmt.Errorf("marshal state container: %w", err)
	}
	return r.store.Set(ctx, StateKey, blob)
}

func (r *StateRepository) openContainer(container stateContainer) (models.AppState, error) {
	state := models.AppState{
		IsFirstTime:    container.IsFirstTime,
		LastCalculated: container.LastCalculated,
	}

	if err := r.decodeSection(container.Utangs, cryptobox.DomainDebt, &state.Utangs); err != nil {
		return models.AppState{}, err
	}

	if err := r.decodeSection(container.Payments, cryptobox.DomainPayment, &state.Payments); err != nil {
		return models.AppState{}, err
	}

	if container.Profile != "" {
		var profile models.UserProfile
		if err := r.decodeSection(container.Profile, cryptobox.DomainProfile, &profile); err != nil {
			return models.AppState{}, err
		}
		state.Profile = &profile
	}

	normalize(&state)
	return state, nil
}

func (r *StateRepository) encodeSection(section any, domain cryptobox.Domain) (string, error) {
	plaintext, err := json.Marshal(section)
	if err != nil {
		return "", fmt.Errorf("marshal %s section: %w", domain, err)
	}
	return r.codec.Encode(plaintext, domain)
}

func (r *StateRepository) decodeSection(envelope string, domain cryptobox.Domain, out any) error {
	plaintext, err := r.codec.Decode(envelope, domain)
	if err != nil {
		return fmt.Errorf("%w: %s section: %v", ErrUnreadable, domain, err)
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("%w: %s section: %v", ErrUnreadable, domain, err)
	}
	return nil
}

func normalize(state *models.AppState) {
	if state.Utangs == nil {
		state.Utangs = []models.Utang{}
	}
	if state.Payments == nil {
		state.Payments = []models.PaymentHistory{}
	}
}
