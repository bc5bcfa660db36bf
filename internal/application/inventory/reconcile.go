package inventory

import (
	"context"
	"fmt"
)

// StockDrift diferencia encontrada entre la caché y el libro.
type StockDrift struct {
	ProductID string
	Cached    int64
	Ledger    int64
}

// ReconcileReport resultado de una pasada de reconciliación.
type ReconcileReport struct {
	TenantID string
	Checked  int
	Drifts   []StockDrift
}

// Reconcile recalcula el stock de cada producto con movimientos y corrige la caché donde difiera.
// El libro siempre gana.
func (uc *StockUseCase) Reconcile(ctx context.Context, tenantID string) (*ReconcileReport, error) {
	r := uc.txRunner.Reader()
	productIDs, err := r.Movements.ListProductIDs(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listar productos con movimientos: %w", err)
	}
	report := &ReconcileReport{TenantID: tenantID}
	for _, productID := range productIDs {
		gen, err := uc.cache.Generation(ctx, tenantID, productID)
		if err != nil {
			return nil, fmt.Errorf("leer generación de %s: %w", productID, err)
		}
		in, out, err := r.Movements.SumByProduct(ctx, tenantID, productID)
		if err != nil {
			return nil, fmt.Errorf("sumar movimientos de %s: %w", productID, err)
		}
		ledger := in - out
		report.Checked++

		cached, ok, err := uc.cache.Get(ctx, tenantID, productID)
		if err != nil {
			return nil, fmt.Errorf("leer caché de %s: %w", productID, err)
		}
		if !ok {
			continue
		}
		if cached != ledger {
			report.Drifts = append(report.Drifts, StockDrift{ProductID: productID, Cached: cached, Ledger: ledger})
			uc.log.Warn().
				Str("tenant_id", tenantID).
				Str("product_id", productID).
				Int64("cached", cached).
				Int64("ledger", ledger).
				Msg("stock cacheado divergente, corrigiendo")
			// Si otro commit invalidó mientras tanto la clave ya no existe y no hay nada que corregir.
			if _, err := uc.cache.Fill(ctx, tenantID, productID, gen, ledger); err != nil {
				return nil, fmt.Errorf("corregir caché de %s: %w", productID, err)
			}
		}
	}
	return report, nil
}
