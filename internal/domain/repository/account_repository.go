package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// AccountRepository puerto de lectura de cuentas financieras.
type AccountRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Account, error)
	ListActive(ctx context.Context, tenantID string) ([]*entity.Account, error)
}
