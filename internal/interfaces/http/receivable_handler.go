package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/receivables"
)

// ReceivableHandler reporte de morosidad (protegido).
type ReceivableHandler struct {
	uc *receivables.OverdueUseCase
}

// NewReceivableHandler construye el handler.
func NewReceivableHandler(uc *receivables.OverdueUseCase) *ReceivableHandler {
	return &ReceivableHandler{uc: uc}
}

// Overdue godoc
// @Summary      Morosidad por cliente
// @Description  Cuotas OPEN vencidas agrupadas por cliente, ordenadas por máximo de días de atraso.
// @Tags         receivables
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OverdueCustomerResponse
// @Router       /api/receivables/overdue [get]
func (h *ReceivableHandler) Overdue(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.OverdueByCustomer(c.Context(), tenantID, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
