package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/models"
	"example.com/utang-tracker/backend/internal/repository"
)

type CreditCardHandler struct {
	State *repository.StateRepository
}

// NewCreditCardHandler создает обработчик экрана кредитных карт.
func NewCreditCardHandler(state *repository.StateRepository) *CreditCardHandler {
	return &CreditCardHandler{State: state}
}

type CreditCardsResponse struct {
	Cards                []UtangResponse `json:"cards"`
	TotalBalance         float64         `json:"total_balance"`
	TotalBalanceDisplay  string          `json:"total_balance_display"`
	TotalMonthlyPayments float64         `json:"total_monthly_payments"`
}

// List возвращает кредитные карты со сводкой по остаткам и плановым
// ежемесячным платежам. Суммируются только карты в статусе pending.
func (h *CreditCardHandler) List(c echo.Context) error {
	utangs, err := h.State.ListUtangs(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}

	now := time.Now()
	response := CreditCardsResponse{Cards: make([]UtangResponse, 0)}
	for _, u := range utangs {
		if u.Type != models.UtangTypeCreditCard {
			continue
		}
		response.Cards = append(response.Cards, toUtangResponse(u, now))

		if u.Status != models.UtangStatusPending {
			continue
		}
		response.TotalBalance += u.Amount
		if u.MonthlyPayment != nil {
			response.TotalMonthlyPayments += *u.MonthlyPayment
		}
	}
	response.TotalBalanceDisplay = dateutil.FormatCurrency(response.TotalBalance)

	return c.JSON(http.StatusOK, response)
}
