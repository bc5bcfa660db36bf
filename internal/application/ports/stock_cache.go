package ports

import "context"

// StockCache agregado de stock cacheado (unidades base). Nunca es fuente de verdad:
// se llena desde el libro de movimientos y se invalida después de cada commit que lo afecta.
//
// Cada producto lleva una generación que Invalidate incrementa. Fill solo escribe si la
// generación sigue siendo la leída antes de sumar el libro, así un recálculo concurrente
// con un commit no deja en la caché el valor previo al commit.
type StockCache interface {
	Get(ctx context.Context, tenantID, productID string) (qty int64, ok bool, err error)
	Generation(ctx context.Context, tenantID, productID string) (int64, error)
	Fill(ctx context.Context, tenantID, productID string, gen, qty int64) (stored bool, err error)
	Invalidate(ctx context.Context, tenantID string, productIDs ...string) error
}

// NopStockCache implementación sin caché (siempre recalcula desde el libro).
type NopStockCache struct{}

func (NopStockCache) Get(context.Context, string, string) (int64, bool, error)         { return 0, false, nil }
func (NopStockCache) Generation(context.Context, string, string) (int64, error)        { return 0, nil }
func (NopStockCache) Fill(context.Context, string, string, int64, int64) (bool, error) { return false, nil }
func (NopStockCache) Invalidate(context.Context, string, ...string) error              { return nil }
