package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/finance"
	"example.com/utang-tracker/backend/internal/repository"
)

type DashboardHandler struct {
	State *repository.StateRepository
}

// NewDashboardHandler создает обработчик дашборда.
func NewDashboardHandler(state *repository.StateRepository) *DashboardHandler {
	return &DashboardHandler{State: state}
}

type DashboardResponse struct {
	TotalUtang        float64 `json:"total_utang"`
	TotalUtangDisplay string  `json:"total_utang_display"`
	ImprovementPct    int     `json:"improvement_pct"`
	ProjectedFreeDate string  `json:"projected_free_date"`
	// nil — доход не задан, метрика неприменима; 0 — задан, платежей
	// текущего месяца нет.
	DebtToIncomeRatio *float64 `json:"debt_to_income_ratio"`
	Recommendation    *string  `json:"recommendation,omitempty"`
	OverdueCount      int      `json:"overdue_count"`
	DueSoonCount      int      `json:"due_soon_count"`
	IsFirstTime       bool     `json:"is_first_time"`
	LastCalculated    *time.Time `json:"last_calculated,omitempty"`
}

// Overview пересчитывает все KPI из полного набора записей. Кэша нет:
// каждое открытие дашборда считает метрики заново.
func (h *DashboardHandler) Overview(c echo.Context) error {
	state, err := h.State.Load(c.Request().Context())
	if err != nil {
		return storageError(c, err)
	}

	now := time.Now()
	kpis := finance.ComputeKPIs(state.Utangs, state.Profile, now)

	response := DashboardResponse{
		TotalUtang:        kpis.TotalUtang,
		TotalUtangDisplay: dateutil.FormatCurrency(kpis.TotalUtang),
		ImprovementPct:    kpis.ImprovementPct,
		ProjectedFreeDate: kpis.ProjectedFreeDate,
		DebtToIncomeRatio: kpis.DebtToIncomeRatio,
		OverdueCount:      len(finance.OverdueUtangs(state.Utangs, now)),
		DueSoonCount:      len(finance.DueSoonUtangs(state.Utangs, now)),
		IsFirstTime:       state.IsFirstTime,
	}

	if kpis.DebtToIncomeRatio != nil {
		recommendation := finance.DebtToIncomeRecommendation(*kpis.DebtToIncomeRatio)
		response.Recommendation = &recommendation
	}

	if !state.LastCalculated.IsZero() {
		response.LastCalculated = &state.LastCalculated
	}

	return c.JSON(http.StatusOK, response)
}
