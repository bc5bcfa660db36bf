package repository

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de productos y sus unidades.
// GetByID devuelve (nil, nil) si no existe, es de otro tenant o está borrado lógicamente.
type ProductRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
}
