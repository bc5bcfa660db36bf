package receivables

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain/receivable"
)

// OverdueUseCase reporte de morosidad por cliente.
type OverdueUseCase struct {
	txRunner ports.TxRunner
}

// NewOverdueUseCase construye el caso de uso.
func NewOverdueUseCase(txRunner ports.TxRunner) *OverdueUseCase {
	return &OverdueUseCase{txRunner: txRunner}
}

// OverdueByCustomer agrupa las cuotas OPEN vencidas por cliente. La fecha de última compra se
// resuelve en una sola consulta para todos los clientes del reporte.
func (uc *OverdueUseCase) OverdueByCustomer(ctx context.Context, tenantID string, now time.Time) ([]dto.OverdueCustomerResponse, error) {
	r := uc.txRunner.Reader()
	open, err := r.Receivables.ListOpenOverdue(ctx, tenantID, now)
	if err != nil {
		return nil, fmt.Errorf("morosidad: listar cuotas: %w", err)
	}
	groups := receivable.GroupOverdue(open, now)
	if len(groups) == 0 {
		return []dto.OverdueCustomerResponse{}, nil
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.CustomerID)
	}
	last, err := r.Sales.LastConfirmedSaleDates(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("morosidad: última compra: %w", err)
	}

	out := make([]dto.OverdueCustomerResponse, 0, len(groups))
	for _, g := range groups {
		row := dto.OverdueCustomerResponse{
			CustomerID:     g.CustomerID,
			TotalOpen:      g.TotalOpen,
			InvoiceCount:   g.InvoiceCount,
			MaxDaysOverdue: g.MaxDaysOverdue,
		}
		if d, ok := last[g.CustomerID]; ok {
			s := d.Format("2006-01-02")
			row.LastPurchaseDate = &s
		}
		out = append(out, row)
	}
	return out, nil
}
