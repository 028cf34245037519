package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/repository"
)

const (
	exportTypeUtangs   = "utangs"
	exportTypePayments = "payments"
)

const timeLayout = time.RFC3339

type ExportHandler struct {
	State *repository.StateRepository
}

// NewExportHandler создает обработчик выгрузки данных.
func NewExportHandler(state *repository.StateRepository) *ExportHandler {
	return &ExportHandler{State: state}
}

type ExportJSONResponse struct {
	Utangs   []UtangResponse          `json:"utangs"`
	Payments []PaymentHistoryResponse `json:"payments"`
	Profile  *ProfileResponse         `json:"profile,omitempty"`
}

// ExportJSON выгружает записи, журнал платежей и профиль в JSON-файл.
func (h *ExportHandler) ExportJSON(c echo.Context) error {
	state, err := h.State.Load(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}

	now := time.Now()
	response := ExportJSONResponse{
		Utangs:   toUtangResponses(state.Utangs, now),
		Payments: toPaymentResponses(state.Payments),
	}
	if state.Profile != nil {
		response.Profile = &ProfileResponse{
			Name:      state.Profile.Name,
			Income:    state.Profile.Income,
			CreatedAt: state.Profile.CreatedAt,
			UpdatedAt: state.Profile.UpdatedAt,
		}
	}

	filename := "utang-tracker-" + now.Format(dateLayout) + ".json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, response)
}

// ExportCSV выгружает записи или журнал платежей в CSV-файл.
func (h *ExportHandler) ExportCSV(c echo.Context) error {
	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeUtangs
	}
	if exportType != exportTypeUtangs && exportType != exportTypePayments {
		return badRequest(c, "type must be utangs or payments")
	}

	state, err := h.State.Load(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeUtangs:
		_ = writer.Write([]string{"id", "label", "type", "amount", "due_date", "final_payment_date", "status", "created_at", "paid_at"})
		for _, u := range state.Utangs {
			paidAt := ""
			if u.PaidAt != nil {
				paidAt = u.PaidAt.Format(timeLayout)
			}
			_ = writer.Write([]string{
				u.ID.String(),
				u.Label,
				string(u.Type),
				fmt.Sprintf("%.2f", u.Amount),
				u.DueDate.Format(dateLayout),
				u.FinalPaymentDate.Format(dateLayout),
				string(u.Status),
				u.CreatedAt.Format(timeLayout),
				paidAt,
			})
		}
	case exportTypePayments:
		_ = writer.Write([]string{"id", "utang_id", "utang_label", "utang_type", "amount_paid", "payment_date", "notes"})
		for _, p := range state.Payments {
			notes := ""
			if p.Notes != nil {
				notes = *p.Notes
			}
			_ = writer.Write([]string{
				p.ID.String(),
				p.UtangID.String(),
				p.UtangLabel,
				string(p.UtangType),
				fmt.Sprintf("%.2f", p.AmountPaid),
				p.PaymentDate.Format(timeLayout),
				notes,
			})
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "utang-tracker-" + exportType + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
