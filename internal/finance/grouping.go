package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"example.com/utang-tracker/backend/internal/dateutil"
	"example.com/utang-tracker/backend/internal/models"
)

// MonthGroup — записи одного календарного месяца для списка и выбора.
type MonthGroup struct {
	Label  string
	Month  time.Time
	Utangs []models.Utang
}

// GroupByMonth разбивает записи по метке месяца срока платежа. Порядок
// групп хронологический, порядок записей внутри группы — порядок входа.
func GroupByMonth(utangs []models.Utang) []MonthGroup {
	byLabel := make(map[string]*MonthGroup)
	for _, u := range utangs {
		label := dateutil.MonthYearLabel(u.DueDate)
		group, ok := byLabel[label]
		if !ok {
			group = &MonthGroup{
				Label: label,
				Month: dateutil.FirstOfMonth(u.DueDate),
			}
			byLabel[label] = group
		}
		group.Utangs = append(group.Utangs, u)
	}

	groups := make([]MonthGroup, 0, len(byLabel))
	for _, group := range byLabel {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Month.Before(groups[j].Month)
	})
	return groups
}

// DueThisMonth отбирает ожидающие записи со сроком от сегодняшнего дня до
// конца текущего месяца. Фильтр смотрит только вперед: просроченные записи
// прошлых месяцев сюда не попадают, они видны в полной группировке.
func DueThisMonth(utangs []models.Utang, now time.Time) []models.Utang {
	today := dateutil.StartOfDay(now)
	lastOfMonth := dateutil.LastOfMonth(now)

	out := make([]models.Utang, 0)
	for _, u := range utangs {
		if u.Status != models.UtangStatusPending {
			continue
		}
		due := dateutil.StartOfDay(u.DueDate)
		if due.Before(today) || due.After(lastOfMonth) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// OverdueUtangs возвращает записи с пропущенным сроком платежа.
func OverdueUtangs(utangs []models.Utang, now time.Time) []models.Utang {
	out := make([]models.Utang, 0)
	for _, u := range utangs {
		if dateutil.IsOverdue(u, now) {
			out = append(out, u)
		}
	}
	return out
}

// DueSoonUtangs возвращает ожидающие записи со сроком в ближайшие 7 дней.
func DueSoonUtangs(utangs []models.Utang, now time.Time) []models.Utang {
	out := make([]models.Utang, 0)
	for _, u := range utangs {
		if u.Status != models.UtangStatusPending {
			continue
		}
		days := dateutil.DaysUntilDue(u, now)
		if days > 0 && days <= DueSoonWindowDays {
			out = append(out, u)
		}
	}
	return out
}

// BatchItem — одна позиция платежной корзины с суммой к оплате.
type BatchItem struct {
	Utang  models.Utang
	Amount float64
}

// PaymentBatch — платеж по набору выбранных записей за одно действие.
type PaymentBatch struct {
	Items []BatchItem
	Total float64
}

// BuildPaymentBatch собирает корзину по выбранным записям. Для кредитов
// сумма фиксированная (амортизация), для кредитных карт — регулируемая:
// значение из adjusted, по умолчанию запланированный ежемесячный платеж.
func BuildPaymentBatch(selected []models.Utang, adjusted map[uuid.UUID]float64) PaymentBatch {
	batch := PaymentBatch{Items: make([]BatchItem, 0, len(selected))}
	for _, u := range selected {
		amount := u.Amount
		if u.Type == models.UtangTypeCreditCard {
			if override, ok := adjusted[u.ID]; ok {
				amount = override
			} else if u.MonthlyPayment != nil {
				amount = *u.MonthlyPayment
			} else {
				amount = 0
			}
		}
		batch.Items = append(batch.Items, BatchItem{Utang: u, Amount: amount})
		batch.Total += amount
	}
	return batch
}

// ValidateBatch проверяет, что каждая регулируемая сумма по кредитной
// карте лежит в (0, остаток]. Любое нарушение отклоняет корзину целиком,
// без изменения состояния.
func ValidateBatch(batch PaymentBatch) error {
	for _, item := range batch.Items {
		if item.Utang.Type != models.UtangTypeCreditCard {
			continue
		}
		if item.Amount <= 0 || item.Amount > item.Utang.Amount {
			return fmt.Errorf("payment for %q must be between 0 and %.2f", item.Utang.Label, item.Utang.Amount)
		}
	}
	return nil
}
