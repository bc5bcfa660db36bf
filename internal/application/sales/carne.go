package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// CarneUseCase genera el carnê (boletas de cuotas) de una venta confirmada.
type CarneUseCase struct {
	txRunner  ports.TxRunner
	generator ports.CarnePDFGenerator
}

// NewCarneUseCase construye el caso de uso.
func NewCarneUseCase(txRunner ports.TxRunner, generator ports.CarnePDFGenerator) *CarneUseCase {
	return &CarneUseCase{txRunner: txRunner, generator: generator}
}

// DownloadCarne retorna el PDF y el nombre de archivo.
//
// Retorna:
//   - domain.ErrNotFound               si la venta no existe.
//   - domain.ErrInvalidStateTransition si la venta no está CONFIRMED.
//   - domain.ErrInvalidInput           si la venta no tiene cuotas.
func (uc *CarneUseCase) DownloadCarne(ctx context.Context, tenantID, saleID string) ([]byte, string, error) {
	r := uc.txRunner.Reader()
	sale, err := r.Sales.GetByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("carnê: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusConfirmed {
		return nil, "", fmt.Errorf("%w: la venta está en estado %s", domain.ErrInvalidStateTransition, sale.Status)
	}
	if len(sale.Receivables) == 0 {
		return nil, "", fmt.Errorf("%w: la venta no tiene cuotas", domain.ErrInvalidInput)
	}

	var customer *entity.Customer
	if sale.CustomerID != nil {
		customer, err = r.Customers.GetByID(ctx, tenantID, *sale.CustomerID)
		if err != nil {
			return nil, "", fmt.Errorf("carnê: obtener cliente: %w", err)
		}
	}

	pdf, err := uc.generator.GenerateCarne(ctx, sale, customer)
	if err != nil {
		return nil, "", fmt.Errorf("carnê: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("carne_%s.pdf", sale.ID), nil
}
