package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/finance"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.FinanceEntryRepository = (*FinanceEntryRepo)(nil)

// FinanceEntryRepo libro de caja/banco (usable con pool o tx).
type FinanceEntryRepo struct {
	q Querier
}

// NewFinanceEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinanceEntryRepository(q Querier) *FinanceEntryRepo {
	return &FinanceEntryRepo{q: q}
}

const entryColumns = `id, tenant_id, account_id, category_id, type, amount, status, description, sale_id, payment_id,
	due_date, paid_at, created_at, updated_at`

func scanEntry(row pgx.Row) (*entity.FinanceEntry, error) {
	var e entity.FinanceEntry
	err := row.Scan(&e.ID, &e.TenantID, &e.AccountID, &e.CategoryID, &e.Type, &e.Amount, &e.Status, &e.Description,
		&e.SaleID, &e.PaymentID, &e.DueDate, &e.PaidAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste un lanzamiento.
func (r *FinanceEntryRepo) Create(ctx context.Context, e *entity.FinanceEntry) error {
	query := `
		INSERT INTO finance_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.AccountID, e.CategoryID, e.Type, e.Amount, e.Status, e.Description,
		e.SaleID, e.PaymentID, e.DueDate, e.PaidAt, e.CreatedAt, e.UpdatedAt,
	)
	return mapError("insert finance entry", err)
}

// GetForUpdate lee el lanzamiento y bloquea la fila hasta el fin de la tx.
func (r *FinanceEntryRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.FinanceEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM finance_entries WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get finance entry", err)
	}
	return e, nil
}

// MarkPaid UPDATE condicional a PAID. Si no afecta filas distingue inexistente de ya pagado.
func (r *FinanceEntryRepo) MarkPaid(ctx context.Context, tenantID, id string, paidAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE finance_entries SET status = 'PAID', paid_at = $3, updated_at = $3
		WHERE id = $1 AND tenant_id = $2 AND status <> 'PAID'`, id, tenantID, paidAt)
	if err != nil {
		return mapError("mark finance entry paid", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM finance_entries WHERE id = $1 AND tenant_id = $2)`, id, tenantID,
	).Scan(&exists); err != nil {
		return mapError("mark finance entry paid", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrAlreadyPaid
}

// PromoteDue SCHEDULED → DUE para due_date <= now. Filtrar por SCHEDULED lo hace idempotente.
func (r *FinanceEntryRepo) PromoteDue(ctx context.Context, tenantID string, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE finance_entries SET status = 'DUE', updated_at = $2
		WHERE tenant_id = $1 AND status = 'SCHEDULED' AND due_date <= $2::date`, tenantID, now)
	if err != nil {
		return 0, mapError("promote due entries", err)
	}
	return tag.RowsAffected(), nil
}

// ListByStatus lanzamientos en un estado, por vencimiento.
func (r *FinanceEntryRepo) ListByStatus(ctx context.Context, tenantID, status string, limit, offset int) ([]*entity.FinanceEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM finance_entries
		WHERE tenant_id = $1 AND status = $2 ORDER BY due_date, created_at, id LIMIT $3 OFFSET $4`,
		tenantID, status, limit, offset)
}

// ListBySale lanzamientos generados por una venta.
func (r *FinanceEntryRepo) ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.FinanceEntry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM finance_entries
		WHERE tenant_id = $1 AND sale_id = $2 ORDER BY created_at, id`, tenantID, saleID)
}

// PaidTotals Σ de los lanzamientos PAID de la cuenta agrupados por tipo.
func (r *FinanceEntryRepo) PaidTotals(ctx context.Context, tenantID, accountID string) ([]finance.TypeTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT type, SUM(amount) FROM finance_entries
		WHERE tenant_id = $1 AND account_id = $2 AND status = 'PAID'
		GROUP BY type ORDER BY type`, tenantID, accountID)
	if err != nil {
		return nil, mapError("sum paid entries", err)
	}
	defer rows.Close()
	var out []finance.TypeTotal
	for rows.Next() {
		var t finance.TypeTotal
		if err := rows.Scan(&t.Type, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan paid total: %w", err)
		}
		out = append(out, t)
	}
	return out, mapError("sum paid entries", rows.Err())
}

func (r *FinanceEntryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.FinanceEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list finance entries", err)
	}
	defer rows.Close()
	var out []*entity.FinanceEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finance entry: %w", err)
		}
		out = append(out, e)
	}
	return out, mapError("list finance entries", rows.Err())
}
