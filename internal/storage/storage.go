package storage

import (
	"context"
	"errors"
)

// ErrNotFound — по ключу ничего не сохранено. Отличается от сбоя
// хранилища: отсутствие данных не ошибка чтения.
var ErrNotFound = errors.New("key not found")

// Store — порт блоб-хранилища: весь агрегат лежит одним значением по
// фиксированному ключу, частичных обновлений нет.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}
