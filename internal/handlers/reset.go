package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/auth"
	"example.com/utang-tracker/backend/internal/notifications"
	"example.com/utang-tracker/backend/internal/repository"
)

type ResetHandler struct {
	State    *repository.StateRepository
	Tokens   *auth.TokenManager
	Notifier *notifications.Hub
}

// NewResetHandler создает обработчик полного сброса данных.
func NewResetHandler(state *repository.StateRepository, tokens *auth.TokenManager, notifier *notifications.Hub) *ResetHandler {
	return &ResetHandler{State: state, Tokens: tokens, Notifier: notifier}
}

type ResetRequestBody struct {
	// Первое явное подтверждение: клиент должен сознательно прислать true.
	Acknowledge bool `json:"acknowledge"`
}

type ResetRequestResponse struct {
	ConfirmToken string    `json:"confirm_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ResetConfirmBody struct {
	ConfirmToken string `json:"confirm_token" validate:"required"`
}

// Request — первый шаг сброса: выдает короткоживущий подписанный токен
// подтверждения. Сами данные на этом шаге не трогаются.
func (h *ResetHandler) Request(c echo.Context) error {
	var body ResetRequestBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid payload")
	}
	if !body.Acknowledge {
		return badRequest(c, "acknowledge must be true")
	}

	token, expiresAt, err := h.Tokens.NewResetToken()
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, ResetRequestResponse{
		ConfirmToken: token,
		ExpiresAt:    expiresAt,
	})
}

// Confirm — второй шаг: по валидному токену необратимо удаляет агрегат и
// все секреты шифрования.
func (h *ResetHandler) Confirm(c echo.Context) error {
	var body ResetConfirmBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&body); err != nil {
		return badRequest(c, "validation failed")
	}

	if _, err := h.Tokens.ParseResetToken(body.ConfirmToken); err != nil {
		return badRequest(c, "invalid or expired confirm token")
	}

	if err := h.State.Reset(c.Request().Context()); err != nil {
		return storageError(c, err)
	}

	publishEvent(h.Notifier, notifications.EventDataReset, nil)

	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}
