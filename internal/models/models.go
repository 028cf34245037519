package models

import (
	"time"

	"github.com/google/uuid"
)

type UtangType string

type UtangStatus string

const (
	UtangTypeLoan       UtangType = "loan"
	UtangTypeCreditCard UtangType = "credit_card"

	UtangStatusPending UtangStatus = "pending"
	UtangStatusPaid    UtangStatus = "paid"
)

// Utang — одно обязательство либо один запланированный взнос по кредиту.
// Кредит на несколько месяцев хранится как N отдельных записей с общей
// датой финального платежа; отдельной сущности "кредит" нет.
type Utang struct {
	ID               uuid.UUID   `json:"id"`
	Label            string      `json:"label"`
	Type             UtangType   `json:"type"`
	Amount           float64     `json:"amount"`
	DueDate          time.Time   `json:"due_date"`
	FinalPaymentDate time.Time   `json:"final_payment_date"`
	InterestRate     *float64    `json:"interest_rate,omitempty"`
	MonthlyPayment   *float64    `json:"monthly_payment,omitempty"`
	Status           UtangStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	PaidAt           *time.Time  `json:"paid_at,omitempty"`
}

type PaymentHistory struct {
	ID          uuid.UUID `json:"id"`
	UtangID     uuid.UUID `json:"utang_id"`
	UtangLabel  string    `json:"utang_label"`
	UtangType   UtangType `json:"utang_type"`
	AmountPaid  float64   `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserProfile struct {
	Name      string    `json:"name"`
	Income    *float64  `json:"income,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppState — полное рабочее состояние приложения, единица персистентности.
type AppState struct {
	Utangs         []Utang          `json:"utangs"`
	Payments       []PaymentHistory `json:"payments"`
	Profile        *UserProfile     `json:"profile,omitempty"`
	IsFirstTime    bool             `json:"is_first_time"`
	LastCalculated time.Time        `json:"last_calculated"`
}

// NewAppState возвращает пустое состояние для первого запуска.
func NewAppState() AppState {
	return AppState{
		Utangs:      []Utang{},
		Payments:    []PaymentHistory{},
		IsFirstTime: true,
	}
}
