package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la venta. CONFIRMED y CANCELLED son terminales.
const (
	SaleStatusDraft     = "DRAFT"
	SaleStatusConfirmed = "CONFIRMED"
	SaleStatusCancelled = "CANCELLED"
)

// Sale representa la cabecera de una venta. Nace en DRAFT (flujo de toma de pedido)
// y solo el motor de liquidación la pasa a CONFIRMED.
type Sale struct {
	ID          string
	TenantID    string
	CustomerID  *string // nil = consumidor final
	Status      string
	Date        time.Time
	DeviceID    string // dispositivo de origen (atribución en la sincronización)
	Total       decimal.Decimal
	Items       []SaleItem
	Payments    []Payment
	Receivables []Receivable
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDraft indica si la venta todavía admite confirmación o cancelación.
func (s *Sale) IsDraft() bool {
	return s.Status == SaleStatusDraft
}

// SaleItem línea de la venta. Quantity está expresada en la unidad vendida (UnitID), no en base.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	UnitID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	SortOrder int
}
