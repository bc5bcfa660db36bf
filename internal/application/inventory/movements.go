package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// ListMovements kardex del producto, más recientes primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, tenantID, productID string, limit, offset int) ([]dto.MovementResponse, error) {
	r := uc.txRunner.Reader()
	product, err := r.Products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := r.Movements.ListByProduct(ctx, tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return toMovementResponses(list), nil
}

// MovementsByReference movimientos publicados por un documento (ej. las salidas de una venta).
func (uc *StockUseCase) MovementsByReference(ctx context.Context, tenantID, referenceID string) ([]dto.MovementResponse, error) {
	list, err := uc.txRunner.Reader().Movements.ListByReference(ctx, tenantID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("movimientos por referencia: %w", err)
	}
	return toMovementResponses(list), nil
}

func toMovementResponses(list []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			Direction:   m.Direction,
			QtyBase:     m.QtyBase,
			Source:      m.Source,
			ReferenceID: m.ReferenceID,
			CreatedAt:   m.CreatedAt,
			CreatedBy:   m.CreatedBy,
		})
	}
	return out
}
