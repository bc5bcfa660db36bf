package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas, ítems y pagos (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, tenant_id, customer_id, status, date, device_id, total, created_at, updated_at`

func (r *SaleRepo) getHeader(ctx context.Context, tenantID, id string, forUpdate bool) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 AND tenant_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id, tenantID).Scan(
		&s.ID, &s.TenantID, &s.CustomerID, &s.Status, &s.Date, &s.DeviceID, &s.Total, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get sale", err)
	}
	return &s, nil
}

// GetByID venta con ítems, pagos y cuotas.
func (r *SaleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	sale, err := r.getHeader(ctx, tenantID, id, false)
	if err != nil || sale == nil {
		return nil, err
	}
	if sale.Items, err = r.items(ctx, tenantID, id); err != nil {
		return nil, err
	}
	if sale.Payments, err = r.payments(ctx, tenantID, id); err != nil {
		return nil, err
	}
	receivables, err := NewReceivableRepository(r.q).ListBySale(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	for _, rec := range receivables {
		sale.Receivables = append(sale.Receivables, *rec)
	}
	return sale, nil
}

// GetForUpdate bloquea la fila de la venta (SELECT ... FOR UPDATE) y carga sus ítems.
// Debe llamarse dentro de una transacción.
func (r *SaleRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	sale, err := r.getHeader(ctx, tenantID, id, true)
	if err != nil || sale == nil {
		return nil, err
	}
	if sale.Items, err = r.items(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return sale, nil
}

// ReplaceItems borra los ítems del borrador e inserta los nuevos.
func (r *SaleRepo) ReplaceItems(ctx context.Context, sale *entity.Sale, items []entity.SaleItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1 AND tenant_id = $2`, sale.ID, sale.TenantID); err != nil {
		return mapError("delete sale items", err)
	}
	query := `
		INSERT INTO sale_items (id, tenant_id, sale_id, product_id, unit_id, quantity, unit_price, total, sort_order, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query,
			it.ID, sale.TenantID, sale.ID, it.ProductID, it.UnitID, it.Quantity, it.UnitPrice, it.Total, it.SortOrder,
		); err != nil {
			return mapError("insert sale item", err)
		}
	}
	return nil
}

// CreatePayment persiste un pago de la venta.
func (r *SaleRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, tenant_id, sale_id, method, amount, account_id, card_type, installments,
			installment_interval_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.SaleID, string(p.Method), p.Amount, nullIfEmpty(p.AccountID), p.CardType,
		p.Installments, p.InstallmentIntervalDays, p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert payment", err)
}

// ConfirmDraft UPDATE condicional: solo afecta la fila si sigue en DRAFT. 0 filas = otro ganó la carrera.
func (r *SaleRepo) ConfirmDraft(ctx context.Context, sale *entity.Sale) error {
	query := `
		UPDATE sales
		SET status = 'CONFIRMED', date = $3, customer_id = $4, device_id = $5, total = $6, updated_at = $7
		WHERE id = $1 AND tenant_id = $2 AND status = 'DRAFT'`
	tag, err := r.q.Exec(ctx, query,
		sale.ID, sale.TenantID, sale.Date, sale.CustomerID, sale.DeviceID, sale.Total, sale.UpdatedAt,
	)
	if err != nil {
		return mapError("confirm sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

// CancelDraft UPDATE condicional DRAFT → CANCELLED.
func (r *SaleRepo) CancelDraft(ctx context.Context, tenantID, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET status = 'CANCELLED', updated_at = $3 WHERE id = $1 AND tenant_id = $2 AND status = 'DRAFT'`,
		id, tenantID, at)
	if err != nil {
		return mapError("cancel sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

// LastConfirmedSaleDates una sola consulta agrupada para todos los clientes pedidos.
func (r *SaleRepo) LastConfirmedSaleDates(ctx context.Context, tenantID string, customerIDs []string) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT customer_id::text, MAX(date)
		FROM sales
		WHERE tenant_id = $1 AND status = 'CONFIRMED' AND customer_id = ANY($2::uuid[])
		GROUP BY customer_id`, tenantID, customerIDs)
	if err != nil {
		return nil, mapError("last purchase dates", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var last time.Time
		if err := rows.Scan(&id, &last); err != nil {
			return nil, fmt.Errorf("scan last purchase date: %w", err)
		}
		out[id] = last
	}
	return out, mapError("last purchase dates", rows.Err())
}

func (r *SaleRepo) items(ctx context.Context, tenantID, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, unit_id, quantity, unit_price, total, sort_order
		FROM sale_items WHERE sale_id = $1 AND tenant_id = $2 ORDER BY sort_order, id`, saleID, tenantID)
	if err != nil {
		return nil, mapError("list sale items", err)
	}
	defer rows.Close()
	var out []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.UnitID, &it.Quantity,
			&it.UnitPrice, &it.Total, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out = append(out, it)
	}
	return out, mapError("list sale items", rows.Err())
}

func (r *SaleRepo) payments(ctx context.Context, tenantID, saleID string) ([]entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, sale_id, method, amount, COALESCE(account_id::text, ''), card_type, installments,
			installment_interval_days, created_at, updated_at
		FROM payments WHERE sale_id = $1 AND tenant_id = $2 ORDER BY created_at, id`, saleID, tenantID)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	defer rows.Close()
	var out []entity.Payment
	for rows.Next() {
		var p entity.Payment
		var method string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.SaleID, &method, &p.Amount, &p.AccountID, &p.CardType,
			&p.Installments, &p.InstallmentIntervalDays, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Method = entity.PaymentMethod(method)
		out = append(out, p)
	}
	return out, mapError("list payments", rows.Err())
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
