package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo libro de inventario sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: las filas no se actualizan ni se borran.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, product_id, direction, qty_base, source, reference_id, created_at, created_by`

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.ProductID, m.Direction, m.QtyBase, m.Source, m.ReferenceID, m.CreatedAt, createdBy,
	)
	return mapError("create inventory movement", err)
}

// SumByProduct Σ IN y Σ OUT del producto en una sola pasada.
func (r *InventoryMovementRepo) SumByProduct(ctx context.Context, tenantID, productID string) (in, out int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(qty_base) FILTER (WHERE direction = 'IN'), 0)::bigint,
			COALESCE(SUM(qty_base) FILTER (WHERE direction = 'OUT'), 0)::bigint
		FROM inventory_movements WHERE tenant_id = $1 AND product_id = $2`
	if err := r.q.QueryRow(ctx, query, tenantID, productID).Scan(&in, &out); err != nil {
		return 0, 0, mapError("sum inventory movements", err)
	}
	return in, out, nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	return r.list(ctx, query, tenantID, productID, limit, offset)
}

// ListByReference movimientos generados por un documento (ej. la venta).
func (r *InventoryMovementRepo) ListByReference(ctx context.Context, tenantID, referenceID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE tenant_id = $1 AND reference_id = $2 ORDER BY created_at, id`
	return r.list(ctx, query, tenantID, referenceID)
}

// ListProductIDs productos con al menos un movimiento.
func (r *InventoryMovementRepo) ListProductIDs(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT product_id::text FROM inventory_movements WHERE tenant_id = $1 ORDER BY 1`, tenantID)
	if err != nil {
		return nil, mapError("list movement products", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError("list movement products", err)
	}
	return ids, nil
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list inventory movements", err)
	}
	defer rows.Close()
	var out []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.Direction, &m.QtyBase,
			&m.Source, &m.ReferenceID, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		out = append(out, &m)
	}
	return out, mapError("list inventory movements", rows.Err())
}
