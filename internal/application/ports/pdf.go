package ports

import (
	"context"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CarnePDFGenerator genera el carnê (boletas de cuotas) de una venta confirmada.
type CarnePDFGenerator interface {
	GenerateCarne(ctx context.Context, sale *entity.Sale, customer *entity.Customer) ([]byte, error)
}
