package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

// ReceivableRepo cuentas por cobrar (usable con pool o tx).
type ReceivableRepo struct {
	q Querier
}

// NewReceivableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceivableRepository(q Querier) *ReceivableRepo {
	return &ReceivableRepo{q: q}
}

const receivableColumns = `id, tenant_id, customer_id, sale_id, payment_id, installment_number, installment_count,
	amount, due_date, status, created_at, updated_at`

// Create persiste una cuota.
func (r *ReceivableRepo) Create(ctx context.Context, rec *entity.Receivable) error {
	query := `
		INSERT INTO receivables (` + receivableColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.TenantID, rec.CustomerID, rec.SaleID, rec.PaymentID, rec.InstallmentNumber, rec.InstallmentCount,
		rec.Amount, rec.DueDate, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	return mapError("insert receivable", err)
}

// ListBySale cuotas de la venta en orden de pago y número.
func (r *ReceivableRepo) ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.Receivable, error) {
	return r.list(ctx, `SELECT `+receivableColumns+` FROM receivables
		WHERE tenant_id = $1 AND sale_id = $2 ORDER BY created_at, payment_id NULLS FIRST, installment_number`,
		tenantID, saleID)
}

// ListOpenOverdue cuotas OPEN con cliente y vencimiento anterior a now.
func (r *ReceivableRepo) ListOpenOverdue(ctx context.Context, tenantID string, now time.Time) ([]*entity.Receivable, error) {
	return r.list(ctx, `SELECT `+receivableColumns+` FROM receivables
		WHERE tenant_id = $1 AND status = 'OPEN' AND customer_id IS NOT NULL AND due_date < $2
		ORDER BY customer_id, due_date`,
		tenantID, now)
}

func (r *ReceivableRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Receivable, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list receivables", err)
	}
	defer rows.Close()
	var out []*entity.Receivable
	for rows.Next() {
		var rec entity.Receivable
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.CustomerID, &rec.SaleID, &rec.PaymentID,
			&rec.InstallmentNumber, &rec.InstallmentCount, &rec.Amount, &rec.DueDate, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan receivable: %w", err)
		}
		out = append(out, &rec)
	}
	return out, mapError("list receivables", rows.Err())
}
