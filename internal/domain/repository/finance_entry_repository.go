package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/finance"
)

// FinanceEntryRepository puerto del libro de caja/banco.
type FinanceEntryRepository interface {
	Create(ctx context.Context, entry *entity.FinanceEntry) error
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.FinanceEntry, error)
	// MarkPaid SCHEDULED/DUE → PAID de forma condicional; ErrAlreadyPaid si ya estaba PAID.
	MarkPaid(ctx context.Context, tenantID, id string, paidAt time.Time) error
	// PromoteDue SCHEDULED → DUE para due_date <= now. Devuelve filas afectadas.
	PromoteDue(ctx context.Context, tenantID string, now time.Time) (int64, error)
	ListByStatus(ctx context.Context, tenantID, status string, limit, offset int) ([]*entity.FinanceEntry, error)
	ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.FinanceEntry, error)
	// PaidTotals Σ de lanzamientos PAID por tipo para la cuenta.
	PaidTotals(ctx context.Context, tenantID, accountID string) ([]finance.TypeTotal, error)
}
