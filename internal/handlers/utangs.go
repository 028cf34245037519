package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/finance"
	"example.com/utang-tracker/backend/internal/models"
	"example.com/utang-tracker/backend/internal/notifications"
	"example.com/utang-tracker/backend/internal/repository"
)

const dateLayout = "2006-01-02"

const (
	filterCurrentMonth = "current_month"
	filterOverdue      = "overdue"
	filterDueSoon      = "due_soon"
)

type UtangHandler struct {
	State    *repository.StateRepository
	Notifier *notifications.Hub
}

// NewUtangHandler создает обработчик записей долга.
func NewUtangHandler(state *repository.StateRepository, notifier *notifications.Hub) *UtangHandler {
	return &UtangHandler{State: state, Notifier: notifier}
}

type CreateUtangRequest struct {
	Label            string   `json:"label" validate:"required,max=100"`
	Type             string   `json:"type" validate:"required,oneof=loan credit_card"`
	Amount           float64  `json:"amount" validate:"gt=0"`
	DueDay           int      `json:"due_day" validate:"required,min=1,max=31"`
	FinalPaymentDate string   `json:"final_payment_date"`
	MonthsToPayOff   int      `json:"months_to_pay_off"`
	InterestRate     *float64 `json:"interest_rate"`
	MonthlyPayment   *float64 `json:"monthly_payment"`
}

type UpdateUtangRequest struct {
	Label            string   `json:"label" validate:"required,max=100"`
	Amount           float64  `json:"amount" validate:"gt=0"`
	DueDate          string   `json:"due_date" validate:"required"`
	FinalPaymentDate string   `json:"final_payment_date" validate:"required"`
	InterestRate     *float64 `json:"interest_rate"`
	MonthlyPayment   *float64 `json:"monthly_payment"`
}

type DeleteUtangsRequest struct {
	UtangIDs []string `json:"utang_ids" validate:"required,min=1"`
}

type UtangResponse struct {
	ID               uuid.UUID  `json:"id"`
	Label            string     `json:"label"`
	Type             string     `json:"type"`
	Amount           float64    `json:"amount"`
	AmountDisplay    string     `json:"amount_display"`
	DueDate          string     `json:"due_date"`
	FinalPaymentDate string     `json:"final_payment_date"`
	InterestRate     *float64   `json:"interest_rate,omitempty"`
	MonthlyPayment   *float64   `json:"monthly_payment,omitempty"`
	Status           string     `json:"status"`
	Overdue          bool       `json:"overdue"`
	DaysUntilDue     int        `json:"days_until_due"`
	CreatedAt        time.Time  `json:"created_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

type CreateUtangResponse struct {
	Utangs []UtangResponse `json:"utangs"`
	// Для кредитной карты — рассчитанный срок погашения в месяцах и
	// признак упора в потолок прогноза.
	PayoffMonths *int  `json:"payoff_months,omitempty"`
	PayoffCapped *bool `json:"payoff_capped,omitempty"`
}

type MonthGroupResponse struct {
	Label  string          `json:"label"`
	Utangs []UtangResponse `json:"utangs"`
}

// Create добавляет долг: кредит раскрывается в записи по взносам, для
// кредитной карты считается прогноз погашения.
func (h *UtangHandler) Create(c echo.Context) error {
	var req CreateUtangRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return badRequest(c, "label is required")
	}

	now := time.Now()

	switch models.UtangType(req.Type) {
	case models.UtangTypeLoan:
		return h.createLoan(c, req, label, now)
	case models.UtangTypeCreditCard:
		return h.createCreditCard(c, req, label, now)
	default:
		return badRequest(c, "unknown utang type")
	}
}

func (h *UtangHandler) createLoan(c echo.Context, req CreateUtangRequest, label string, now time.Time) error {
	final, err := resolveFinalDate(req, now)
	if err != nil {
		return badRequest(c, err.Error())
	}

	utangs, err := finance.ExpandLoan(label, req.Amount, req.DueDay, final, now)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.State.AddUtangBatch(c.Request().Context(), utangs); err != nil {
		return storageError(c, err)
	}

	publishEvent(h.Notifier, notifications.EventUtangCreated, map[string]interface{}{
		"type":  req.Type,
		"label": label,
		"count": len(utangs),
	})

	return c.JSON(http.StatusCreated, CreateUtangResponse{Utangs: toUtangResponses(utangs, now)})
}

func (h *UtangHandler) createCreditCard(c echo.Context, req CreateUtangRequest, label string, now time.Time) error {
	if req.Amount > finance.MaxTotalAmount {
		return badRequest(c, "total amount exceeds the allowed maximum")
	}
	if req.InterestRate == nil {
		return badRequest(c, "interest_rate is required for credit cards")
	}
	if req.MonthlyPayment == nil || *req.MonthlyPayment <= 0 {
		return badRequest(c, "monthly_payment must be greater than 0")
	}

	projection, err := finance.ProjectPayoff(req.Amount, *req.MonthlyPayment, *req.InterestRate, now)
	if err != nil {
		if errors.Is(err, finance.ErrPaymentTooLow) {
			return paymentTooLow(c)
		}
		return badRequest(c, err.Error())
	}

	rateFraction := *req.InterestRate / 100
	utang := models.Utang{
		ID:               uuid.New(),
		Label:            label,
		Type:             models.UtangTypeCreditCard,
		Amount:           req.Amount,
		DueDate:          finance.FirstDueDate(req.DueDay, now),
		FinalPaymentDate: projection.PayoffDate,
		InterestRate:     &rateFraction,
		MonthlyPayment:   req.MonthlyPayment,
		Status:           models.UtangStatusPending,
		CreatedAt:        now,
	}

	if err := h.State.AddUtang(c.Request().Context(), utang); err != nil {
		return storageError(c, err)
	}

	publishEvent(h.Notifier, notifications.EventUtangCreated, map[string]interface{}{
		"type":  req.Type,
		"label": label,
		"count": 1,
	})

	months := projection.Months
	capped := projection.Capped
	return c.JSON(http.StatusCreated, CreateUtangResponse{
		Utangs:       toUtangResponses([]models.Utang{utang}, now),
		PayoffMonths: &months,
		PayoffCapped: &capped,
	})
}

// List возвращает записи, опционально суженные фильтром: долги текущего
// месяца от сегодняшнего дня, просроченные или близкие к сроку.
func (h *UtangHandler) List(c echo.Context) error {
	utangs, err := h.State.ListUtangs(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}

	now := time.Now()
	switch c.QueryParam("filter") {
	case "":
	case filterCurrentMonth:
		utangs = finance.DueThisMonth(utangs, now)
	case filterOverdue:
		utangs = finance.OverdueUtangs(utangs, now)
	case filterDueSoon:
		utangs = finance.DueSoonUtangs(utangs, now)
	default:
		return badRequest(c, "unknown filter")
	}

	return c.JSON(http.StatusOK, map[string][]UtangResponse{"utangs": toUtangResponses(utangs, now)})
}

// Grouped возвращает записи, сгруппированные по месяцу срока платежа.
func (h *UtangHandler) Grouped(c echo.Context) error {
	utangs, err := h.State.ListUtangs(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}

	now := time.Now()
	groups := finance.GroupByMonth(utangs)

	response := make([]MonthGroupResponse, 0, len(groups))
	for _, group := range groups {
		response = append(response, MonthGroupResponse{
			Label:  group.Label,
			Utangs: toUtangResponses(group.Utangs, now),
		})
	}
	return c.JSON(http.StatusOK, map[string][]MonthGroupResponse{"groups": response})
}

// Update целиком заменяет поля записи по идентификатору.
func (h *UtangHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid utang id")
	}

	var req UpdateUtangRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return badRequest(c, "due_date must be YYYY-MM-DD")
	}
	finalDate, err := time.Parse(dateLayout, req.FinalPaymentDate)
	if err != nil {
		return badRequest(c, "final_payment_date must be YYYY-MM-DD")
	}

	existing, err := h.State.SelectUtangs(c.Request().Context(), []uuid.UUID{id})
	if err != nil {
		return storageError(c, err)
	}
	if len(existing) == 0 {
		return notFound(c, "utang not found")
	}

	utang := existing[0]
	utang.Label = strings.TrimSpace(req.Label)
	utang.Amount = req.Amount
	utang.DueDate = dueDate
	utang.FinalPaymentDate = finalDate
	utang.InterestRate = req.InterestRate
	utang.MonthlyPayment = req.MonthlyPayment

	if err := h.State.UpdateUtang(c.Request().Context(), utang); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "utang not found")
		}
		return storageError(c, err)
	}

	return c.JSON(http.StatusOK, toUtangResponse(utang, time.Now()))
}

// Delete удаляет записи по списку идентификаторов.
func (h *UtangHandler) Delete(c echo.Context) error {
	var req DeleteUtangsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	ids, err := parseUUIDs(req.UtangIDs)
	if err != nil {
		return badRequest(c, "invalid utang id")
	}

	deleted, err := h.State.DeleteUtangs(c.Request().Context(), ids)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "no matching utangs")
		}
		return storageError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int{"deleted": deleted})
}

func resolveFinalDate(req CreateUtangRequest, now time.Time) (time.Time, error) {
	if req.FinalPaymentDate != "" {
		final, err := time.Parse(dateLayout, req.FinalPaymentDate)
		if err != nil {
			return time.Time{}, errors.New("final_payment_date must be YYYY-MM-DD")
		}
		return final, nil
	}
	if req.MonthsToPayOff > 0 {
		return finance.MonthsToFinalDate(req.MonthsToPayOff, now)
	}
	return time.Time{}, errors.New("either final_payment_date or months_to_pay_off is required")
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toUtangResponse(u models.Utang, now time.Time) UtangResponse {
	return UtangResponse{
		ID:               u.ID,
		Label:            u.Label,
		Type:             string(u.Type),
		Amount:           u.Amount,
		AmountDisplay:    dateutil.FormatCurrency(u.Amount),
		DueDate:          u.DueDate.Format(dateLayout),
		FinalPaymentDate: u.FinalPaymentDate.Format(dateLayout),
		InterestRate:     u.InterestRate,
		MonthlyPayment:   u.MonthlyPayment,
		Status:           string(u.Status),
		Overdue:          dateutil.IsOverdue(u, now),
		DaysUntilDue:     dateutil.DaysUntilDue(u, now),
		CreatedAt:        u.CreatedAt,
		PaidAt:           u.PaidAt,
	}
}

func toUtangResponses(utangs []models.Utang, now time.Time) []UtangResponse {
	out := make([]UtangResponse, 0, len(utangs))
	for _, u := range utangs {
		out = append(out, toUtangResponse(u, now))
	}
	return out
}

func publishEvent(hub *notifications.Hub, eventType string, data interface{}) {
	if hub == nil {
		return
	}
	hub.Publish(notifications.Event{Type: eventType, Data: data})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func paymentTooLow(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{
		"error": "monthly payment does not cover accruing interest",
		"code":  "payment_too_low",
	})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// storageError отличает нечитаемое хранилище от прочих сбоев: это риск
// потери данных, и он показывается явно, а не как "данных еще нет".
func storageError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrUnreadable) {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "stored data unreadable",
			"code":  "data_unreadable",
		})
	}
	return serverError(c)
}
