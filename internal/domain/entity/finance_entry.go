package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de lanzamiento financiero.
const (
	EntryIncome   = "INCOME"
	EntryExpense  = "EXPENSE"
	EntryAporte   = "APORTE"   // aporte de capital
	EntryRetirada = "RETIRADA" // retiro del socio
)

// Estados del lanzamiento. Única mutación permitida: SCHEDULED → DUE → PAID.
const (
	EntryScheduled = "SCHEDULED"
	EntryDue       = "DUE"
	EntryPaid      = "PAID"
)

// FinanceEntry fila del libro de caja/banco (entrada simple).
type FinanceEntry struct {
	ID          string
	TenantID    string
	AccountID   string
	CategoryID  *string
	Type        string
	Amount      decimal.Decimal // siempre positivo; el signo lo da Type
	Status      string
	Description string
	SaleID      *string
	PaymentID   *string
	DueDate     time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsInflow indica si el lanzamiento suma al saldo (INCOME, APORTE).
func (e *FinanceEntry) IsInflow() bool {
	return e.Type == EntryIncome || e.Type == EntryAporte
}

// ValidEntryType indica si el tipo es conocido.
func ValidEntryType(t string) bool {
	switch t {
	case EntryIncome, EntryExpense, EntryAporte, EntryRetirada:
		return true
	}
	return false
}
