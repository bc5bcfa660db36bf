package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// ReceivableRepository puerto de cuentas por cobrar.
type ReceivableRepository interface {
	Create(ctx context.Context, receivable *entity.Receivable) error
	ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.Receivable, error)
	// ListOpenOverdue cuotas OPEN con cliente y due_date < now.
	ListOpenOverdue(ctx context.Context, tenantID string, now time.Time) ([]*entity.Receivable, error)
}
