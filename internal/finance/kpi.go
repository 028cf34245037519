package finance

import (
	"math"
	"time"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/models"
)

// DebtFreeLabel — значение ProjectedFreeDate, когда ожидающих записей нет.
const DebtFreeLabel = "Debt Free!"

type KPIData struct {
	TotalUtang        float64
	ImprovementPct    int
	ProjectedFreeDate string
	// DebtToIncomeRatio равен nil, когда доход не указан: "0%" и
	// "неприменимо" — разные ответы.
	DebtToIncomeRatio *float64
}

// TotalUtang суммирует суммы всех записей в статусе pending.
func TotalUtang(utangs []models.Utang) float64 {
	var total float64
	for _, u := range utangs {
		if u.Status == models.UtangStatusPending {
			total += u.Amount
		}
	}
	return total
}

// ImprovementPct — доля оплаченных записей за всю историю, в процентах.
// Метрика намеренно пожизненная, а не оконная по 7 дням.
func ImprovementPct(utangs []models.Utang) int {
	if len(utangs) == 0 {
		return 0
	}

	paid := 0
	for _, u := range utangs {
		if u.Status == models.UtangStatusPaid {
			paid++
		}
	}
	return int(math.Round(float64(paid) / float64(len(utangs)) * 100))
}

// ProjectedFreeDate возвращает метку месяца максимальной финальной даты
// среди ожидающих записей, либо DebtFreeLabel, если таких нет.
func ProjectedFreeDate(utangs []models.Utang, now time.Time) string {
	latest := now
	pending := false
	for _, u := range utangs {
		if u.Status != models.UtangStatusPending {
			continue
		}
		pending = true
		if u.FinalPaymentDate.After(latest) {
			latest = u.FinalPaymentDate
		}
	}

	if !pending {
		return DebtFreeLabel
	}
	return dateutil.MonthYearLabel(latest)
}

// DebtToIncomeRatio считает отношение платежей текущего месяца к доходу в
// процентах с точностью до сотых. Учитываются только записи со сроком от
// сегодняшнего дня до конца календарного месяца: уже просроченные платежи
// прошлого месяца в метрику не входят.
func DebtToIncomeRatio(utangs []models.Utang, profile *models.UserProfile, now time.Time) *float64 {
	if profile == nil || profile.Income == nil || *profile.Income <= 0 {
		return nil
	}

	today := dateutil.StartOfDay(now)
	firstOfMonth := dateutil.FirstOfMonth(now)
	lastOfMonth := dateutil.LastOfMonth(now)

	var monthlyPayments float64
	for _, u := range utangs {
		due := dateutil.StartOfDay(u.DueDate)
		if due.Before(today) || due.Before(firstOfMonth) || due.After(lastOfMonth) {
			continue
		}

		switch u.Type {
		case models.UtangTypeLoan:
			monthlyPayments += u.Amount
		case models.UtangTypeCreditCard:
			if u.MonthlyPayment != nil {
				monthlyPayments += *u.MonthlyPayment
			}
		}
	}

	ratio := 0.0
	if monthlyPayments > 0 {
		ratio = math.Round(monthlyPayments / *profile.Income * 100 * 100) / 100
	}
	return &ratio
}

// DebtToIncomeRecommendation возвращает рекомендацию по значению
// отношения долга к доходу.
func DebtToIncomeRecommendation(ratio float64) string {
	switch {
	case ratio <= 20:
		return "Excellent! You have a very healthy debt-to-income ratio."
	case ratio <= 35:
		return "Good! Your debt level is manageable."
	case ratio <= 50:
		return "Concerning. Consider paying down debt or increasing income."
	default:
		return "Critical! Seek financial advice to reduce debt burden."
	}
}

// ComputeKPIs собирает все метрики заново из полного набора записей.
// Кэширования нет: каждое чтение дашборда пересчитывает значения.
func ComputeKPIs(utangs []models.Utang, profile *models.UserProfile, now time.Time) KPIData {
	return KPIData{
		TotalUtang:        TotalUtang(utangs),
		ImprovementPct:    ImprovementPct(utangs),
		ProjectedFreeDate: ProjectedFreeDate(utangs, now),
		DebtToIncomeRatio: DebtToIncomeRatio(utangs, profile, now),
	}
}
