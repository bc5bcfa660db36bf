package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente del tenant. (nil, nil) si no existe o está borrado.
func (r *CustomerRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Customer, error) {
	query := `
		SELECT id, tenant_id, name, tax_id, phone, deleted_at, created_at, updated_at
		FROM customers WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.TaxID, &c.Phone, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get customer", err)
	}
	return &c, nil
}
