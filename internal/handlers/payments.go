package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/finance"
	"example.com/utang-tracker/backend/internal/models"
	"example.com/utang-tracker/backend/internal/notifications"
	"example.com/utang-tracker/backend/internal/repository"
)

var errBadBatchID = errors.New("invalid utang id")

type PaymentHandler struct {
	State    *repository.StateRepository
	Notifier *notifications.Hub
}

// NewPaymentHandler создает обработчик платежного сценария.
func NewPaymentHandler(state *repository.StateRepository, notifier *notifications.Hub) *PaymentHandler {
	return &PaymentHandler{State: state, Notifier: notifier}
}

type PaymentBatchRequest struct {
	UtangIDs []string `json:"utang_ids" validate:"required,min=1"`
	// Регулируемые суммы по кредитным картам; ключ — идентификатор
	// записи. Для кредитов суммы фиксированные и здесь игнорируются.
	AdjustedAmounts map[string]float64 `json:"adjusted_amounts"`
	Notes           *string            `json:"notes"`
}

type BatchItemResponse struct {
	Utang  UtangResponse `json:"utang"`
	Amount float64       `json:"amount"`
	// Признак, что сумму можно регулировать (кредитная карта).
	Adjustable bool `json:"adjustable"`
}

type PaymentBatchResponse struct {
	Items        []BatchItemResponse `json:"items"`
	Total        float64             `json:"total"`
	TotalDisplay string              `json:"total_display"`
}

type PaymentHistoryResponse struct {
	ID          uuid.UUID `json:"id"`
	UtangID     uuid.UUID `json:"utang_id"`
	UtangLabel  string    `json:"utang_label"`
	UtangType   string    `json:"utang_type"`
	AmountPaid  float64   `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConfirmPaymentResponse struct {
	Payments []PaymentHistoryResponse `json:"payments"`
	PaidAt   time.Time                `json:"paid_at"`
}

// Preview собирает платежную корзину по выбранным записям без изменения
// состояния.
func (h *PaymentHandler) Preview(c echo.Context) error {
	var req PaymentBatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	batch, err := h.resolveBatch(c, req)
	if err != nil {
		return h.batchError(c, err)
	}

	return c.JSON(http.StatusOK, toBatchResponse(batch, time.Now()))
}

// Confirm подтверждает платеж: проверяет регулируемые суммы, пишет
// записи истории и переводит выбранные долги в paid с общей меткой
// времени. Нарушение диапазона отклоняет корзину целиком.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	var req PaymentBatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	batch, err := h.resolveBatch(c, req)
	if err != nil {
		return h.batchError(c, err)
	}

	if err := finance.ValidateBatch(batch); err != nil {
		return badRequest(c, err.Error())
	}

	items := make([]repository.PaymentItem, 0, len(batch.Items))
	for _, item := range batch.Items {
		items = append(items, repository.PaymentItem{
			UtangID: item.Utang.ID,
			Amount:  item.Amount,
			Notes:   req.Notes,
		})
	}

	history, paidAt, err := h.State.ConfirmPayment(c.Request().Context(), items, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "utang not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, err.Error())
		}
		return storageError(c, err)
	}

	publishEvent(h.Notifier, notifications.EventPaymentConfirmed, map[string]interface{}{
		"count": len(history),
		"total": batch.Total,
	})

	return c.JSON(http.StatusOK, ConfirmPaymentResponse{
		Payments: toPaymentResponses(history),
		PaidAt:   paidAt,
	})
}

// History возвращает журнал платежей.
func (h *PaymentHandler) History(c echo.Context) error {
	payments, err := h.State.ListPayments(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]PaymentHistoryResponse{"payments": toPaymentResponses(payments)})
}

// DeleteHistory удаляет одну запись журнала платежей.
func (h *PaymentHandler) DeleteHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid payment id")
	}

	if err := h.State.DeletePayment(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "payment not found")
		}
		return storageError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PaymentHandler) resolveBatch(c echo.Context, req PaymentBatchRequest) (finance.PaymentBatch, error) {
	ids, err := parseUUIDs(req.UtangIDs)
	if err != nil {
		return finance.PaymentBatch{}, errBadBatchID
	}

	adjusted := make(map[uuid.UUID]float64, len(req.AdjustedAmounts))
	for raw, amount := range req.AdjustedAmounts {
		id, err := uuid.Parse(raw)
		if err != nil {
			return finance.PaymentBatch{}, errBadBatchID
		}
		adjusted[id] = amount
	}

	selected, err := h.State.SelectUtangs(c.Request().Context(), ids)
	if err != nil {
		return finance.PaymentBatch{}, err
	}
	if len(selected) != len(ids) {
		return finance.PaymentBatch{}, fmt.Errorf("%w: unknown utang in selection", repository.ErrNotFound)
	}

	return finance.BuildPaymentBatch(selected, adjusted), nil
}

func (h *PaymentHandler) batchError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errBadBatchID):
		return badRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, "utang not found")
	default:
		return storageError(c, err)
	}
}

func toBatchResponse(batch finance.PaymentBatch, now time.Time) PaymentBatchResponse {
	items := make([]BatchItemResponse, 0, len(batch.Items))
	for _, item := range batch.Items {
		items = append(items, BatchItemResponse{
			Utang:      toUtangResponse(item.Utang, now),
			Amount:     item.Amount,
			Adjustable: item.Utang.Type == models.UtangTypeCreditCard,
		})
	}
	return PaymentBatchResponse{
		Items:        items,
		Total:        batch.Total,
		TotalDisplay: dateutil.FormatCurrency(batch.Total),
	}
}

func toPaymentResponses(payments []models.PaymentHistory) []PaymentHistoryResponse {
	out := make([]PaymentHistoryResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentHistoryResponse{
			ID:          p.ID,
			UtangID:     p.UtangID,
			UtangLabel:  p.UtangLabel,
			UtangType:   string(p.UtangType),
			AmountPaid:  p.AmountPaid,
			PaymentDate: p.PaymentDate,
			Notes:       p.Notes,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out
}
