package server

import "github.com/go-playground/validator/v10"

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator создает валидатор запросов на базе go-playground/validator.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &CustomValidator{validator: v}
}

// Validate запускает проверку структуры запроса по тегам полей.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
