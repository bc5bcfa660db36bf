package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pdv-api/internal/application/finance"
	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/application/receivables"
	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/infrastructure/cache"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pdv-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pdv-api/internal/interfaces/http"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// demoTenantID tenant cargado en el store en memoria cuando no hay base de datos.
const demoTenantID = "00000000-0000-0000-0000-0000000000d0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var txRunner ports.TxRunner
	if cfg.DB.Configured() {
		if cfg.Migrations.Auto {
			if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
	} else {
		if !cfg.App.IsDevelopment() {
			log.Fatal().Msg("DATABASE_URL o DB_HOST requerido fuera de development")
		}
		store := memory.New()
		store.SeedDemo(demoTenantID)
		txRunner = store
		log.Warn().Str("tenant_id", demoTenantID).Msg("sin base de datos: usando store en memoria con datos demo")
	}

	// Caché de stock opcional; sin Redis el stock siempre se recalcula desde el libro.
	var stockCache ports.StockCache
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		stockCache = cache.NewRedisStockCache(rdb, cfg.Redis.StockCacheTTL)
	}

	stockUC := inventory.NewStockUseCase(txRunner, stockCache, log)
	settlementUC := sales.NewSettlementUseCase(txRunner, stockUC, log)
	carneUC := sales.NewCarneUseCase(txRunner, infrapdf.NewMarotoCarneGenerator(cfg.App.Name))
	financeUC := finance.NewFinanceUseCase(txRunner, log)
	overdueUC := receivables.NewOverdueUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PDV API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Settlement: settlementUC,
		Carne:      carneUC,
		Stock:      stockUC,
		Finance:    financeUC,
		Overdue:    overdueUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
