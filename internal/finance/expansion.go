package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/models"
)

// MonthsToFinalDate переводит срок в месяцах в дату финального платежа.
func MonthsToFinalDate(months int, now time.Time) (time.Time, error) {
	if months < MinMonthsToPayOff || months > MaxMonthsToPayOff {
		return time.Time{}, fmt.Errorf("months to pay off must be between %d and %d", MinMonthsToPayOff, MaxMonthsToPayOff)
	}
	return now.AddDate(0, months, 0), nil
}

// FirstDueDate возвращает дату первого взноса: день dueDay в текущем
// месяце, либо в следующем, если этот день уже прошел.
func FirstDueDate(dueDay int, now time.Time) time.Time {
	today := dateutil.StartOfDay(now)
	due := dueDateIn(today.Year(), today.Month(), dueDay, now.Location())
	if due.Before(today) {
		next := dateutil.FirstOfMonth(today).AddDate(0, 1, 0)
		due = dueDateIn(next.Year(), next.Month(), dueDay, now.Location())
	}
	return due
}

// ExpandLoan раскрывает кредит в отдельные записи — по одной на каждый
// месячный взнос от первой даты платежа до финальной включительно. Записи
// связаны только общей финальной датой и индексом в метке.
func ExpandLoan(label string, amount float64, dueDay int, finalPaymentDate time.Time, now time.Time) ([]models.Utang, error) {
	if !dateutil.IsValidDueDay(dueDay) {
		return nil, fmt.Errorf("due day must be between 1 and 31")
	}
	if amount <= 0 || amount > MaxLoanAmortization {
		return nil, fmt.Errorf("amortization must be between 0 and %.0f", MaxLoanAmortization)
	}
	if !dateutil.IsValidFinalDate(finalPaymentDate, now) {
		return nil, fmt.Errorf("final payment date must be in the future")
	}

	// Финальная дата сравнивается как календарный день в зоне now: дата,
	// разобранная в UTC, не должна обрезать взнос, выпадающий ровно на нее.
	fy, fm, fd := finalPaymentDate.Date()
	final := time.Date(fy, fm, fd, 0, 0, 0, 0, now.Location())

	var dues []time.Time
	due := FirstDueDate(dueDay, now)
	for !due.After(final) {
		dues = append(dues, due)
		next := dateutil.FirstOfMonth(due).AddDate(0, 1, 0)
		due = dueDateIn(next.Year(), next.Month(), dueDay, due.Location())
	}
	if len(dues) == 0 {
		return nil, fmt.Errorf("no installment fits before the final payment date")
	}

	createdAt := now
	utangs := make([]models.Utang, 0, len(dues))
	for i, d := range dues {
		utangs = append(utangs, models.Utang{
			ID:               uuid.New(),
			Label:            fmt.Sprintf("%s (%d/%d)", label, i+1, len(dues)),
			Type:             models.UtangTypeLoan,
			Amount:           amount,
			DueDate:          d,
			FinalPaymentDate: final,
			Status:           models.UtangStatusPending,
			CreatedAt:        createdAt,
		})
	}

	return utangs, nil
}

// dueDateIn строит дату платежа в заданном месяце, прижимая день к длине
// месяца: 31-е число в апреле дает 30 апреля, в мае снова 31 мая.
func dueDateIn(year int, month time.Month, dueDay int, loc *time.Location) time.Time {
	return time.Date(year, month, dateutil.ClampDay(year, month, dueDay), 0, 0, 0, 0, loc)
}
