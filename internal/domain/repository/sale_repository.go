package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas, ítems y pagos.
type SaleRepository interface {
	// GetByID carga la venta con ítems, pagos y cuotas. (nil, nil) si no existe.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	// GetForUpdate carga la venta con sus ítems y bloquea la fila hasta el fin de la tx.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	ReplaceItems(ctx context.Context, sale *entity.Sale, items []entity.SaleItem) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	// ConfirmDraft pasa la venta a CONFIRMED solo si sigue en DRAFT; si no, ErrInvalidStateTransition.
	ConfirmDraft(ctx context.Context, sale *entity.Sale) error
	// CancelDraft pasa la venta a CANCELLED solo si sigue en DRAFT; si no, ErrInvalidStateTransition.
	CancelDraft(ctx context.Context, tenantID, id string, at time.Time) error
	// LastConfirmedSaleDates fecha de la última venta CONFIRMED por cliente, en una sola consulta.
	LastConfirmedSaleDates(ctx context.Context, tenantID string, customerIDs []string) (map[string]time.Time, error)
}
