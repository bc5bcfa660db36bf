package dto

import "github.com/shopspring/decimal"

// OverdueCustomerResponse fila del reporte de morosidad.
type OverdueCustomerResponse struct {
	CustomerID       string          `json:"customer_id"`
	TotalOpen        decimal.Decimal `json:"total_open"`
	InvoiceCount     int             `json:"invoice_count"`
	MaxDaysOverdue   int             `json:"max_days_overdue"`
	LastPurchaseDate *string         `json:"last_purchase_date,omitempty"`
}
