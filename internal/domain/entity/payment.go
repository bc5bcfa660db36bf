package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago aceptado en el PDV.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentPix        PaymentMethod = "PIX"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCrediario  PaymentMethod = "CREDIARIO"
	PaymentBoleto     PaymentMethod = "BOLETO"
	PaymentCheque     PaymentMethod = "CHEQUE"
)

// DefaultInstallmentIntervalDays intervalo entre cuotas cuando el pago no lo especifica.
const DefaultInstallmentIntervalDays = 30

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCreditCard, PaymentDebitCard,
		PaymentCrediario, PaymentBoleto, PaymentCheque:
		return true
	}
	return false
}

// Payment pago aplicado a una venta. Solo lo crea la liquidación.
type Payment struct {
	ID                      string
	TenantID                string
	SaleID                  string
	Method                  PaymentMethod
	Amount                  decimal.Decimal
	AccountID               string
	CardType                *string
	Installments            *int
	InstallmentIntervalDays *int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// PlanKind familia de liquidación de un pago.
type PlanKind int

const (
	// PlanImmediate genera un lanzamiento PAID en la cuenta.
	PlanImmediate PlanKind = iota
	// PlanInstallment genera cuentas por cobrar (una por cuota).
	PlanInstallment
)

// PaymentPlan variante resuelta una sola vez por pago.
type PaymentPlan struct {
	Kind         PlanKind
	Installments int
	IntervalDays int
}

// Plan resuelve cómo se liquida el pago: CREDIARIO siempre a plazo; CREDIT_CARD a plazo
// solo con más de una cuota. DEBIT_CARD es inmediato aunque traiga cuotas, igual que
// CASH, PIX, BOLETO y CHEQUE.
func (p Payment) Plan() PaymentPlan {
	n := 1
	if p.Installments != nil && *p.Installments > 0 {
		n = *p.Installments
	}
	interval := DefaultInstallmentIntervalDays
	if p.InstallmentIntervalDays != nil && *p.InstallmentIntervalDays > 0 {
		interval = *p.InstallmentIntervalDays
	}
	switch {
	case p.Method == PaymentCrediario:
		return PaymentPlan{Kind: PlanInstallment, Installments: n, IntervalDays: interval}
	case p.Method == PaymentCreditCard && n > 1:
		return PaymentPlan{Kind: PlanInstallment, Installments: n, IntervalDays: interval}
	default:
		return PaymentPlan{Kind: PlanImmediate, Installments: 1}
	}
}
