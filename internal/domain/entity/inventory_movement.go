package entity

import "time"

// Direcciones de movimiento de inventario.
const (
	MovementIN  = "IN"  // entrada
	MovementOUT = "OUT" // salida
)

// Orígenes de movimiento (para trazabilidad; no afectan el cálculo de stock).
const (
	MovementSourceSale     = "SALE"
	MovementSourcePurchase = "PURCHASE"
	MovementSourceManual   = "MANUAL"
)

// InventoryMovement es una fila inmutable del libro de inventario, siempre en unidades base.
// Stock de un producto = Σ IN.QtyBase − Σ OUT.QtyBase.
type InventoryMovement struct {
	ID          string
	TenantID    string
	ProductID   string
	Direction   string
	QtyBase     int64 // siempre positivo
	Source      string
	ReferenceID string // ID de la venta u otro documento de origen
	CreatedAt   time.Time
	CreatedBy   string
}
