package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// InventoryMovementRepository puerto del libro de inventario (solo inserción y lectura).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// SumByProduct devuelve Σ IN y Σ OUT en unidades base para el producto del tenant.
	SumByProduct(ctx context.Context, tenantID, productID string) (in, out int64, err error)
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByReference(ctx context.Context, tenantID, referenceID string) ([]*entity.InventoryMovement, error)
	// ListProductIDs productos con al menos un movimiento (para reconciliación).
	ListProductIDs(ctx context.Context, tenantID string) ([]string, error)
}
