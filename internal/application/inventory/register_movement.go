package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/inventory"
)

// RegisterMovement registra una entrada/salida manual (compra, ajuste) en su propia transacción.
// La cantidad llega en la unidad indicada y se convierte a base antes de publicar.
func (uc *StockUseCase) RegisterMovement(ctx context.Context, tenantID, userID string, in dto.RegisterMovementRequest) (*entity.InventoryMovement, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Direction != entity.MovementIN && in.Direction != entity.MovementOUT {
		return nil, domain.ErrInvalidInput
	}
	source := in.Source
	switch source {
	case "":
		source = entity.MovementSourceManual
	case entity.MovementSourcePurchase, entity.MovementSourceManual:
	default:
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		product, err := r.Products.GetByID(ctx, tenantID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		unit, ok := product.BaseUnit()
		if in.UnitID != "" {
			unit, ok = product.Unit(in.UnitID)
		}
		if !ok {
			return domain.ErrNotFound
		}
		mov, err = uc.PostInTx(ctx, r, tenantID, product.ID, in.Direction,
			inventory.ToBase(in.Quantity, unit), source, in.Reference, userID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.InvalidateAfterCommit(ctx, tenantID, []string{mov.ProductID})
	return mov, nil
}
