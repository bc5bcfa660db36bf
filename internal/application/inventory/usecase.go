package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/inventory"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// StockUseCase libro de inventario: publicación de movimientos y stock derivado.
// El stock nunca se incrementa en un contador: se recalcula desde los movimientos y,
// como mucho, se cachea detrás de ports.StockCache.
type StockUseCase struct {
	txRunner ports.TxRunner
	cache    ports.StockCache
	log      *logger.Logger
}

// NewStockUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewStockUseCase(txRunner ports.TxRunner, cache ports.StockCache, log *logger.Logger) *StockUseCase {
	if cache == nil {
		cache = ports.NopStockCache{}
	}
	return &StockUseCase{txRunner: txRunner, cache: cache, log: log}
}

// PostInTx agrega una fila al libro usando los repos de la transacción del caller.
// No valida suficiencia de stock: el libro no tiene poder de veto.
func (uc *StockUseCase) PostInTx(
	ctx context.Context,
	r ports.Repos,
	tenantID, productID, direction string,
	qtyBase int64,
	source, referenceID, userID string,
	now time.Time,
) (*entity.InventoryMovement, error) {
	if direction != entity.MovementIN && direction != entity.MovementOUT {
		return nil, domain.ErrInvalidInput
	}
	if qtyBase <= 0 {
		return nil, domain.ErrInvalidInput
	}
	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		ProductID:   productID,
		Direction:   direction,
		QtyBase:     qtyBase,
		Source:      source,
		ReferenceID: referenceID,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// StockOf Σ IN − Σ OUT del producto para el tenant. ErrNotFound si el producto no existe.
func (uc *StockUseCase) StockOf(ctx context.Context, tenantID, productID string) (int64, error) {
	_, qty, err := uc.load(ctx, tenantID, productID)
	return qty, err
}

// UnitBreakdown disponibilidad por unidad de presentación: floor(stock / factor).
func (uc *StockUseCase) UnitBreakdown(ctx context.Context, tenantID, productID string) ([]inventory.UnitAvailability, error) {
	product, qty, err := uc.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return inventory.Breakdown(qty, product.Units), nil
}

// StockStatus stock base, desglose por unidad y alerta de stock mínimo.
func (uc *StockUseCase) StockStatus(ctx context.Context, tenantID, productID string) (*dto.StockStatusResponse, error) {
	product, qty, err := uc.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockStatusResponse{
		ProductID:     product.ID,
		ProductName:   product.Name,
		StockBase:     qty,
		MinStock:      product.MinStock,
		BelowMinStock: inventory.BelowMinStock(qty, product),
		Units:         []dto.UnitAvailabilityDTO{},
	}
	for _, u := range inventory.Breakdown(qty, product.Units) {
		resp.Units = append(resp.Units, dto.UnitAvailabilityDTO{
			UnitID:     u.UnitID,
			Label:      u.Label,
			Factor:     u.Factor,
			IsSellable: u.IsSellable,
			Available:  u.Available,
		})
	}
	return resp, nil
}

func (uc *StockUseCase) load(ctx context.Context, tenantID, productID string) (*entity.Product, int64, error) {
	r := uc.txRunner.Reader()
	product, err := r.Products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, domain.ErrNotFound
	}
	qty, err := uc.stockOf(ctx, r, tenantID, productID)
	if err != nil {
		return nil, 0, err
	}
	return product, qty, nil
}

// stockOf usa la caché si responde; ante fallo o ausencia recalcula desde el libro.
// El relleno va condicionado a la generación leída antes de sumar: si un commit invalidó
// entretanto, el valor calculado se devuelve pero no se cachea.
func (uc *StockUseCase) stockOf(ctx context.Context, r ports.Repos, tenantID, productID string) (int64, error) {
	qty, ok, err := uc.cache.Get(ctx, tenantID, productID)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("caché de stock no disponible, recalculando")
	} else if ok {
		return qty, nil
	}
	gen, genErr := uc.cache.Generation(ctx, tenantID, productID)
	in, out, err := r.Movements.SumByProduct(ctx, tenantID, productID)
	if err != nil {
		return 0, fmt.Errorf("sumar movimientos: %w", err)
	}
	qty = in - out
	if genErr != nil {
		uc.log.Warn().Err(genErr).Str("product_id", productID).Msg("no se pudo leer generación de stock")
		return qty, nil
	}
	if _, err := uc.cache.Fill(ctx, tenantID, productID, gen, qty); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo cachear stock")
	}
	return qty, nil
}

// InvalidateAfterCommit descarta el stock cacheado de los productos tocados por una tx confirmada.
func (uc *StockUseCase) InvalidateAfterCommit(ctx context.Context, tenantID string, productIDs []string) {
	if len(productIDs) == 0 {
		return
	}
	if err := uc.cache.Invalidate(ctx, tenantID, productIDs...); err != nil {
		uc.log.Error().Err(err).Strs("product_ids", productIDs).Msg("invalidar caché de stock")
	}
}
