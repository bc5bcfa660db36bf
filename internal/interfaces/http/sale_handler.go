package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/sales"
)

// SaleHandler maneja la liquidación de ventas (protegido).
type SaleHandler struct {
	settlement *sales.SettlementUseCase
	carne      *sales.CarneUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(settlement *sales.SettlementUseCase, carne *sales.CarneUseCase) *SaleHandler {
	return &SaleHandler{settlement: settlement, carne: carne}
}

// Confirm godoc
// @Summary      Confirmar venta
// @Description  Liquida un borrador en una sola transacción: salidas de inventario, lanzamientos
//
//	pagados para medios inmediatos y cuotas por cobrar para crediário o tarjeta a plazo.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la venta"
// @Param        body  body  dto.ConfirmSaleRequest  false "items, payments, date, customer_id, device_id"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/confirm [post]
func (h *SaleHandler) Confirm(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.ConfirmSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	date, ok := parseSaleDate(in.Date)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD o RFC3339"})
	}
	out, err := h.settlement.Confirm(c.Context(), sales.ConfirmInput{
		TenantID:   tenantID,
		SaleID:     c.Params("id"),
		UserID:     GetUserID(c),
		Items:      in.Items,
		Payments:   in.Payments,
		Date:       date,
		CustomerID: in.CustomerID,
		DeviceID:   in.DeviceID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToSaleResponse(out.Sale, out.Customer))
}

// Cancel godoc
// @Summary      Cancelar borrador de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	sale, err := h.settlement.Cancel(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToSaleResponse(sale, nil))
}

// Carne godoc
// @Summary      Descargar carnê de la venta
// @Description  PDF con una boleta por cuota de una venta confirmada.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/carne [get]
func (h *SaleHandler) Carne(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	pdf, filename, err := h.carne.DownloadCarne(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// parseSaleDate acepta YYYY-MM-DD o RFC3339. Vacío = cero (la liquidación usa ahora).
func parseSaleDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
