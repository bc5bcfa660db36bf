package sales

import (
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ToSaleResponse arma la respuesta materializada de la venta.
func ToSaleResponse(sale *entity.Sale, customer *entity.Customer) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:          sale.ID,
		Status:      sale.Status,
		Date:        sale.Date.Format(dateLayout),
		DeviceID:    sale.DeviceID,
		Total:       sale.Total,
		Items:       make([]dto.SaleItemResponse, 0, len(sale.Items)),
		Payments:    make([]dto.PaymentResponse, 0, len(sale.Payments)),
		Receivables: make([]dto.ReceivableResponse, 0, len(sale.Receivables)),
		UpdatedAt:   sale.UpdatedAt,
	}
	if customer != nil {
		resp.Customer = &dto.CustomerSummary{ID: customer.ID, Name: customer.Name, TaxID: customer.TaxID}
	}
	for _, it := range sale.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			UnitID:    it.UnitID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	for _, p := range sale.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:                      p.ID,
			Method:                  string(p.Method),
			Amount:                  p.Amount,
			AccountID:               p.AccountID,
			CardType:                p.CardType,
			Installments:            p.Installments,
			InstallmentIntervalDays: p.InstallmentIntervalDays,
		})
	}
	for _, r := range sale.Receivables {
		resp.Receivables = append(resp.Receivables, dto.ReceivableResponse{
			ID:                r.ID,
			CustomerID:        r.CustomerID,
			PaymentID:         r.PaymentID,
			InstallmentNumber: r.InstallmentNumber,
			InstallmentCount:  r.InstallmentCount,
			Amount:            r.Amount,
			DueDate:           r.DueDate.Format(dateLayout),
			Status:            r.Status,
		})
	}
	return resp
}
