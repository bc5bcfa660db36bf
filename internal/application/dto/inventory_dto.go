package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements (compras, ajustes manuales).
// Quantity está en la unidad indicada; si UnitID es vacío se asume la unidad base.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	UnitID    string `json:"unit_id,omitempty"`
	Direction string `json:"direction"` // IN | OUT
	Quantity  int64  `json:"quantity"`
	Source    string `json:"source,omitempty"` // PURCHASE | MANUAL
	Reference string `json:"reference,omitempty"`
}

// UnitAvailabilityDTO disponibilidad de una presentación.
type UnitAvailabilityDTO struct {
	UnitID     string `json:"unit_id"`
	Label      string `json:"label"`
	Factor     int64  `json:"factor"`
	IsSellable bool   `json:"is_sellable"`
	Available  int64  `json:"available"`
}

// StockStatusResponse stock derivado de un producto y su desglose por unidad.
type StockStatusResponse struct {
	ProductID     string                `json:"product_id"`
	ProductName   string                `json:"product_name"`
	StockBase     int64                 `json:"stock_base"`
	MinStock      *int64                `json:"min_stock,omitempty"`
	BelowMinStock bool                  `json:"below_min_stock"`
	Units         []UnitAvailabilityDTO `json:"units"`
}

// MovementResponse fila del libro de inventario (unidades base).
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Direction   string    `json:"direction"`
	QtyBase     int64     `json:"qty_base"`
	Source      string    `json:"source"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}
