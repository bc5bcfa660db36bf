package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto del tenant con sus unidades. (nil, nil) si no existe o está borrado.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `
		SELECT id, tenant_id, name, min_stock, deleted_at, created_at, updated_at
		FROM products WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id, tenantID).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.MinStock, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get product", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, label, factor_to_base, is_sellable, sort_order
		FROM product_units WHERE product_id = $1 AND tenant_id = $2
		ORDER BY sort_order, factor_to_base`, id, tenantID)
	if err != nil {
		return nil, mapError("list product units", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u entity.ProductUnit
		if err := rows.Scan(&u.ID, &u.ProductID, &u.Label, &u.FactorToBase, &u.IsSellable, &u.SortOrder); err != nil {
			return nil, fmt.Errorf("scan product unit: %w", err)
		}
		p.Units = append(p.Units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list product units", err)
	}
	return &p, nil
}
