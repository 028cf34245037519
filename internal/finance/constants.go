package finance

const (
	// MaxPayoffMonths ограничивает прогноз погашения 50 годами. Очень
	// длинные выплаты упираются в этот потолок, а не считаются бесконечно.
	MaxPayoffMonths = 600

	MaxLoanAmortization  = 50_000.0
	MaxTotalAmount       = 500_000.0
	MaxAnnualRatePercent = 100.0
	MinMonthsToPayOff    = 1
	MaxMonthsToPayOff    = 600
	MaxMonthlyIncome     = 10_000_000.0
	DueSoonWindowDays    = 7
)
