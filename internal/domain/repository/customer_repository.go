package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CustomerRepository puerto de lectura de clientes. (nil, nil) si no existe o está borrado.
type CustomerRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Customer, error)
}
