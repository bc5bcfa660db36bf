package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea enviada al confirmar. Quantity en la unidad vendida.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentRequest pago enviado al confirmar.
type PaymentRequest struct {
	Method                  string          `json:"method"`
	Amount                  decimal.Decimal `json:"amount"`
	AccountID               string          `json:"account_id,omitempty"`
	CardType                *string         `json:"card_type,omitempty"`
	Installments            *int            `json:"installments,omitempty"`
	InstallmentIntervalDays *int            `json:"installment_interval_days,omitempty"`
}

// ConfirmSaleRequest body para POST /api/sales/:id/confirm.
// Items vacío = usar los ítems ya guardados en el borrador. Payments vacío = venta a cuenta.
type ConfirmSaleRequest struct {
	Items      []SaleItemRequest `json:"items,omitempty"`
	Payments   []PaymentRequest  `json:"payments,omitempty"`
	Date       string            `json:"date,omitempty"` // YYYY-MM-DD o RFC3339; vacío = hoy
	CustomerID *string           `json:"customer_id,omitempty"`
	DeviceID   string            `json:"device_id,omitempty"`
}

// SaleItemResponse línea de la venta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	UnitID    string          `json:"unit_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// PaymentResponse pago creado por la liquidación.
type PaymentResponse struct {
	ID                      string          `json:"id"`
	Method                  string          `json:"method"`
	Amount                  decimal.Decimal `json:"amount"`
	AccountID               string          `json:"account_id,omitempty"`
	CardType                *string         `json:"card_type,omitempty"`
	Installments            *int            `json:"installments,omitempty"`
	InstallmentIntervalDays *int            `json:"installment_interval_days,omitempty"`
}

// ReceivableResponse cuota por cobrar.
type ReceivableResponse struct {
	ID                string          `json:"id"`
	CustomerID        *string         `json:"customer_id,omitempty"`
	PaymentID         *string         `json:"payment_id,omitempty"`
	InstallmentNumber int             `json:"installment_number"`
	InstallmentCount  int             `json:"installment_count"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           string          `json:"due_date"`
	Status            string          `json:"status"`
}

// CustomerSummary datos mínimos del cliente en la respuesta de venta.
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id,omitempty"`
}

// SaleResponse venta totalmente materializada.
type SaleResponse struct {
	ID          string               `json:"id"`
	Status      string               `json:"status"`
	Date        string               `json:"date"`
	DeviceID    string               `json:"device_id,omitempty"`
	Total       decimal.Decimal      `json:"total"`
	Customer    *CustomerSummary     `json:"customer,omitempty"`
	Items       []SaleItemResponse   `json:"items"`
	Payments    []PaymentResponse    `json:"payments"`
	Receivables []ReceivableResponse `json:"receivables"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
