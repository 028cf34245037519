package finance

import (
	"errors"
	"fmt"
	"time"
)

// ErrPaymentTooLow — платеж не покрывает начисляемые проценты, график
// погашения построить нельзя. Бизнес-условие, а не сбой: повтор с теми же
// входными данными даст тот же результат, нужны другие параметры.
var ErrPaymentTooLow = errors.New("monthly payment does not cover accruing interest")

type PayoffProjection struct {
	Months     int
	PayoffDate time.Time
	// Capped выставляется, когда баланс не успел обнулиться за
	// MaxPayoffMonths и дата взята по потолку.
	Capped bool
}

// ProjectPayoff оценивает срок погашения баланса кредитной карты при
// фиксированном ежемесячном платеже и годовой ставке в процентах.
func ProjectPayoff(totalAmount, monthlyPayment, annualRatePercent float64, now time.Time) (PayoffProjection, error) {
	if totalAmount <= 0 {
		return PayoffProjection{}, fmt.Errorf("total amount must be greater than 0")
	}
	if monthlyPayment <= 0 {
		return PayoffProjection{}, fmt.Errorf("monthly payment must be greater than 0")
	}
	if annualRatePercent < 0 || annualRatePercent > MaxAnnualRatePercent {
		return PayoffProjection{}, fmt.Errorf("annual rate must be between 0 and %.0f percent", MaxAnnualRatePercent)
	}

	monthlyRate := annualRatePercent / 100 / 12
	balance := totalAmount
	months := 0

	for balance > 0 {
		interest := balance * monthlyRate
		principal := monthlyPayment - interest
		if principal <= 0 {
			return PayoffProjection{}, ErrPaymentTooLow
		}

		balance -= principal
		months++

		if months >= MaxPayoffMonths && balance > 0 {
			return PayoffProjection{
				Months:     MaxPayoffMonths,
				PayoffDate: now.AddDate(0, MaxPayoffMonths, 0),
				Capped:     true,
			}, nil
		}
	}

	return PayoffProjection{
		Months:     months,
		PayoffDate: now.AddDate(0, months, 0),
	}, nil
}
