package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la cuenta por cobrar.
const (
	ReceivableOpen      = "OPEN"
	ReceivableSettled   = "SETTLED"
	ReceivableCancelled = "CANCELLED"
)

// Receivable cuota futura que adeuda un cliente (o la adquirente, en tarjeta a plazo).
type Receivable struct {
	ID                string
	TenantID          string
	CustomerID        *string
	SaleID            string
	PaymentID         *string // nil = venta a cuenta sin pagos
	InstallmentNumber int     // 1..N
	InstallmentCount  int
	Amount            decimal.Decimal
	DueDate           time.Time
	Status            string
	Settlements       []ReceivableSettlement
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReceivableSettlement abono parcial o total aplicado después sobre la cuota.
type ReceivableSettlement struct {
	ID           string
	ReceivableID string
	Amount       decimal.Decimal
	PaidAt       time.Time
	AccountID    string
}
