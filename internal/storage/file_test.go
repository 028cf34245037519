package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// TestFileStoreRoundTrip проверяет запись и чтение значения.
func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx := context.Background()
	if err := store.Set(ctx, "UTANG_FREE_DATA", []byte("first")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(ctx, "UTANG_FREE_DATA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.Equal(got, []byte("first")) {
		t.Fatalf("expected first, got %s", got)
	}

	if err := store.Set(ctx, "UTANG_FREE_DATA", []byte("second")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err = store.Get(ctx, "UTANG_FREE_DATA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Fatalf("expected overwrite to win, got %s", got)
	}
}

// TestFileStoreMissingKey проверяет ErrNotFound для отсутствующего ключа.
func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestFileStoreRemove проверяет удаление и его идемпотентность.
func TestFileStoreRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx := context.Background()
	if err := store.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Remove(ctx, "key"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Get(ctx, "key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	if err := store.Remove(ctx, "key"); err != nil {
		t.Fatalf("expected repeated remove to succeed, got %v", err)
	}
}
