package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pdv-api/internal/application/finance"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/receivables"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Settlement *sales.SettlementUseCase
	Carne      *sales.CarneUseCase
	Stock      *inventory.StockUseCase
	Finance    *finance.FinanceUseCase
	Overdue    *receivables.OverdueUseCase
	JWTSecret  string
	Log        *logger.Logger // opcional: log de peticiones
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	if deps.Log != nil {
		protected.Use(RequestLogger(deps.Log))
	}

	// Sales
	saleHandler := NewSaleHandler(deps.Settlement, deps.Carne)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/:id/confirm", saleHandler.Confirm)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Get("/:id/carne", saleHandler.Carne)

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.Stock)
	protected.Get("/products/:id/stock", inventoryHandler.Stock)
	protected.Get("/products/:id/movements", inventoryHandler.Movements)
	salesGroup.Get("/:id/movements", inventoryHandler.SaleMovements)
	protected.Post("/inventory/movements", inventoryHandler.RegisterMovement)

	// Finance
	financeHandler := NewFinanceHandler(deps.Finance)
	accounts := protected.Group("/accounts")
	accounts.Get("/balances", financeHandler.Balances)
	accounts.Get("/:id/balance", financeHandler.Balance)
	entries := protected.Group("/finance/entries")
	entries.Get("/due", financeHandler.DueEntries)
	entries.Post("/", financeHandler.CreateEntry)
	entries.Post("/:id/pay", financeHandler.Pay)

	// Receivables
	receivableHandler := NewReceivableHandler(deps.Overdue)
	protected.Get("/receivables/overdue", receivableHandler.Overdue)
}
