package dateutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"example.com/utang-tracker/backend/internal/models"
)

const monthYearLayout = "January 2006"

// IsValidDueDay проверяет день платежа в диапазоне 1-31.
func IsValidDueDay(day int) bool {
	return day >= 1 && day <= 31
}

// IsValidFinalDate проверяет, что дата финального платежа строго в будущем.
func IsValidFinalDate(date time.Time, now time.Time) bool {
	return !date.IsZero() && date.After(now)
}

// StartOfDay обнуляет время, оставляя календарный день.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsOverdue сообщает, просрочена ли запись: статус pending и срок
// строго раньше сегодняшнего дня. Просроченность не хранится, а
// вычисляется на каждом чтении.
func IsOverdue(u models.Utang, now time.Time) bool {
	if u.Status != models.UtangStatusPending {
		return false
	}
	return StartOfDay(u.DueDate).Before(StartOfDay(now))
}

// DaysUntilDue возвращает число дней до срока платежа; отрицательное
// значение означает просрочку.
func DaysUntilDue(u models.Utang, now time.Time) int {
	diff := StartOfDay(u.DueDate).Sub(StartOfDay(now))
	return int(math.Round(diff.Hours() / 24))
}

// MonthYearLabel возвращает метку месяца, стабильную для группировки:
// одинаковый месяц и год дают одинаковую строку.
func MonthYearLabel(date time.Time) string {
	return date.Format(monthYearLayout)
}

// FirstOfMonth возвращает первый день текущего месяца.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// LastOfMonth возвращает последний день текущего месяца.
func LastOfMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, -1)
}

// DaysInMonth возвращает длину месяца в днях.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay прижимает желаемый день платежа к длине месяца: 31-е число
// в 30-дневном месяце становится последним валидным днем.
func ClampDay(year int, month time.Month, day int) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	return day
}

// FormatDate форматирует дату для отображения.
func FormatDate(date time.Time) string {
	return date.Format("January 2, 2006")
}

// FormatCurrency форматирует сумму в песо с разделителями тысяч.
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	whole := int64(amount)
	frac := amount - float64(whole)

	out := groupThousands(strconv.FormatInt(whole, 10))
	if frac > 1e-9 {
		cents := int(math.Round(frac * 100))
		if cents == 100 {
			out = groupThousands(strconv.FormatInt(whole+1, 10))
		} else {
			out += fmt.Sprintf(".%02d", cents)
		}
	}

	if neg {
		return "-₱" + out
	}
	return "₱" + out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
