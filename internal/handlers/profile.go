package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/finance"
	"example.com/utang-tracker/backend/internal/repository"
)

type ProfileHandler struct {
	State *repository.StateRepository
}

// NewProfileHandler создает обработчик профиля пользователя.
func NewProfileHandler(state *repository.StateRepository) *ProfileHandler {
	return &ProfileHandler{State: state}
}

type ProfileRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Income *float64 `json:"income"`
}

type ProfileResponse struct {
	Name      string    `json:"name"`
	Income    *float64  `json:"income,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get возвращает профиль, 404 пока он не создан.
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.State.GetProfile(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}
	if profile == nil {
		return notFound(c, "profile not set")
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Name:      profile.Name,
		Income:    profile.Income,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	})
}

// Save создает или обновляет единственный профиль. Доход необязателен и
// нужен только для метрики отношения долга к доходу.
func (h *ProfileHandler) Save(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}

	if req.Income != nil {
		if *req.Income < 0 {
			return badRequest(c, "income must not be negative")
		}
		if *req.Income > finance.MaxMonthlyIncome {
			return badRequest(c, "income exceeds the allowed maximum")
		}
	}

	profile, err := h.State.SaveProfile(c.Request().Context(), name, req.Income)
	if err != nil {
		return storageError(c, err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Name:      profile.Name,
		Income:    profile.Income,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	})
}
