package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ListTenantIDs tenants registrados, para procesos que recorren todos (reconciliación).
func ListTenantIDs(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT id::text FROM tenants ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError("list tenants", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError("list tenants", err)
	}
	return ids, nil
}
