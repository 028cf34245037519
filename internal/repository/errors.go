package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	// ErrUnreadable — сохраненный агрегат есть, но расшифровать его не
	// удалось. Закрытый отказ: состояние не угадывается и не затирается.
	ErrUnreadable = errors.New("stored data unreadable")
)
