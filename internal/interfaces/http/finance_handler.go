package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/finance"
)

// FinanceHandler maneja saldos y lanzamientos del libro financiero (protegido).
type FinanceHandler struct {
	uc  *finance.FinanceUseCase
	now func() time.Time
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *finance.FinanceUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc, now: time.Now}
}

// Balances godoc
// @Summary      Saldos de las cuentas activas
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.AccountBalanceResponse
// @Router       /api/accounts/balances [get]
func (h *FinanceHandler) Balances(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ListBalances(c.Context(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Balance godoc
// @Summary      Saldo de una cuenta
// @Description  Suma de lanzamientos PAID: ingresos y aportes menos gastos y retiros.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/balance [get]
func (h *FinanceHandler) Balance(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	balance, err := h.uc.BalanceOf(c.Context(), tenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"account_id": id, "balance": balance})
}

// DueEntries godoc
// @Summary      Lanzamientos vencidos
// @Description  Promueve SCHEDULED → DUE los lanzamientos con vencimiento alcanzado y lista los DUE.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.DueEntriesResponse
// @Router       /api/finance/entries/due [get]
func (h *FinanceHandler) DueEntries(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.Normalize()
	list, err := h.uc.ListDueEntries(c.Context(), tenantID, h.now(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DueEntriesResponse{
		Items: list,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// CreateEntry godoc
// @Summary      Crear lanzamiento manual
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFinanceEntryRequest  true  "account_id, type, amount, due_date, paid"
// @Success      201   {object}  dto.FinanceEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/entries [post]
func (h *FinanceHandler) CreateEntry(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.CreateFinanceEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateEntry(c.Context(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Pay godoc
// @Summary      Marcar lanzamiento como pagado
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lanzamiento"
// @Success      200  {object}  dto.FinanceEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/finance/entries/{id}/pay [post]
func (h *FinanceHandler) Pay(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.MarkPaid(c.Context(), tenantID, c.Params("id"), h.now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
