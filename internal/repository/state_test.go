package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/cryptobox"
	"example.com/utang-tracker/backend/internal/models"
	"example.com/utang-tracker/backend/internal/storage"
)

func newTestRepository(t *testing.T) (*StateRepository, storage.Store) {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	codec := cryptobox.NewCodec(cryptobox.NewKeyring(t.TempDir()))
	return NewStateRepository(store, codec), store
}

func testUtang(label string, status models.UtangStatus) models.Utang {
	return models.Utang{
		ID:               uuid.New(),
		Label:            label,
		Type:             models.UtangTypeLoan,
		Amount:           1000,
		DueDate:          time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		FinalPaymentDate: time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
		Status:           status,
		CreatedAt:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// TestStateRepositoryFirstLoad проверяет свежее состояние при пустом
// хранилище.
func TestStateRepositoryFirstLoad(t *testing.T) {
	repo, _ := newTestRepository(t)

	state, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !state.IsFirstTime {
		t.Fatal("expected first-time state")
	}
	if len(state.Utangs) != 0 || len(state.Payments) != 0 {
		t.Fatal("expected empty collections")
	}
	if state.Profile != nil {
		t.Fatal("expected no profile")
	}
}

// TestStateRepositoryRoundTrip проверяет сохранение и чтение агрегата.
func TestStateRepositoryRoundTrip(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()

	income := 50000.0
	saved := models.AppState{
		Utangs:   []models.Utang{testUtang("Car loan (1/6)", models.UtangStatusPending)},
		Payments: []models.PaymentHistory{},
		Profile: &models.UserProfile{
			Name:      "Juan",
			Income:    &income,
			CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
		LastCalculated: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := repo.Save(ctx, saved); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(loaded.Utangs) != 1 || loaded.Utangs[0].ID != saved.Utangs[0].ID {
		t.Fatalf("unexpected utangs after reload: %+v", loaded.Utangs)
	}
	if loaded.Utangs[0].Label != "Car loan (1/6)" {
		t.Fatalf("unexpected label: %s", loaded.Utangs[0].Label)
	}
	if loaded.Profile == nil || loaded.Profile.Name != "Juan" || *loaded.Profile.Income != income {
		t.Fatalf("unexpected profile after reload: %+v", loaded.Profile)
	}
	if !loaded.LastCalculated.Equal(saved.LastCalculated) {
		t.Fatalf("expected last calculated %s, got %s", saved.LastCalculated, loaded.LastCalculated)
	}

	// Сырой блоб не содержит данных открытым текстом.
	blob, err := store.Get(ctx, StateKey)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var container stateContainer
	if err := json.Unmarshal(blob, &container); err != nil {
		t.Fatalf("expected container JSON, got %v", err)
	}
	if container.Version != containerVersion {
		t.Fatalf("expected version %d, got %d", containerVersion, container.Version)
	}
	if !cryptobox.IsEncoded(container.Utangs) || !cryptobox.IsEncoded(container.Profile) {
		t.Fatal("expected encoded sections")
	}
}

// TestStateRepositoryPlaintextMigration проверяет одноразовый прием
// открытого JSON старого формата.
func TestStateRepositoryPlaintextMigration(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()

	legacy := models.AppState{
		Utangs:         []models.Utang{testUtang("Old loan", models.UtangStatusPending)},
		LastCalculated: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
	}
	blob, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.Set(ctx, StateKey, blob); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected legacy blob to load, got %v", err)
	}
	if len(loaded.Utangs) != 1 || loaded.Utangs[0].Label != "Old loan" {
		t.Fatalf("unexpected utangs after migration: %+v", loaded.Utangs)
	}
	if loaded.Payments == nil {
		t.Fatal("expected payments to be normalized to an empty slice")
	}
}

// TestStateRepositoryUnreadable проверяет жесткий отказ на нечитаемом
// блобе вместо подмены пустым состоянием.
func TestStateRepositoryUnreadable(t *testing.T) {
	repo, store := newTestRepository(t)
	ctx := context.Background()

	if err := store.Set(ctx, StateKey, []byte("neither json nor envelope")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := repo.Load(ctx); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

// TestStateRepositoryMutateClearsFirstTime проверяет сброс флага первого
// запуска на первой мутации.
func TestStateRepositoryMutateClearsFirstTime(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repo.AddUtang(ctx, testUtang("First", models.UtangStatusPending)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	state, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state.IsFirstTime {
		t.Fatal("expected first-time flag to be cleared")
	}
	if state.LastCalculated.IsZero() {
		t.Fatal("expected last calculated to be set")
	}
}

// TestStateRepositoryReset проверяет возврат к состоянию первого запуска.
func TestStateRepositoryReset(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repo.AddUtang(ctx, testUtang("Doomed", models.UtangStatusPending)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	state, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !state.IsFirstTime || len(state.Utangs) != 0 {
		t.Fatal("expected fresh first-time state after reset")
	}
}
