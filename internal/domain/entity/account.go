package entity

import "time"

// Tipos de cuenta financiera.
const (
	AccountTypeCash  = "CASH"
	AccountTypeBank  = "BANK"
	AccountTypeOther = "OTHER"
)

// Account caja o banco del tenant. El saldo no se almacena: se recalcula desde FinanceEntry.
type Account struct {
	ID                    string
	TenantID              string
	Name                  string
	Type                  string
	Active                bool
	DefaultPaymentMethods []PaymentMethod
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AcceptsByDefault indica si la cuenta recibe ese medio por defecto.
func (a *Account) AcceptsByDefault(m PaymentMethod) bool {
	for _, d := range a.DefaultPaymentMethods {
		if d == m {
			return true
		}
	}
	return false
}
