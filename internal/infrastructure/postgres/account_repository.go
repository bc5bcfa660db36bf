package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo cuentas financieras (caja, banco).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, tenant_id, name, type, active, default_payment_methods, created_at, updated_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var methods []string
	if err := row.Scan(&a.ID, &a.TenantID, &a.Name, &a.Type, &a.Active, &methods, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	for _, m := range methods {
		a.DefaultPaymentMethods = append(a.DefaultPaymentMethods, entity.PaymentMethod(m))
	}
	return &a, nil
}

// GetByID obtiene una cuenta del tenant. (nil, nil) si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get account", err)
	}
	return a, nil
}

// ListActive cuentas activas del tenant ordenadas por nombre.
func (r *AccountRepo) ListActive(ctx context.Context, tenantID string) ([]*entity.Account, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE tenant_id = $1 AND active ORDER BY name`, tenantID)
	if err != nil {
		return nil, mapError("list accounts", err)
	}
	defer rows.Close()
	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, mapError("list accounts", rows.Err())
}
