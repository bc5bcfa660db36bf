// Command reconcile-stock recalcula el stock desde el libro de movimientos y corrige la caché
// de Redis donde difiera. Un lock distribuido evita dos ejecuciones simultáneas.
package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/jhoicas/pdv-api/internal/application/inventory"
	"github.com/jhoicas/pdv-api/internal/infrastructure/cache"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

const lockKey = "lock:reconcile-stock"

func main() {
	tenantsFlag := flag.String("tenants", "", "IDs de tenant separados por coma (vacío = todos)")
	lockTTL := flag.Duration("lock-ttl", time.Minute, "TTL del lock distribuido")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if *lockTTL < cache.MinLockTTL {
		log.Fatal().Dur("lock_ttl", *lockTTL).Msgf("-lock-ttl debe ser al menos %s", cache.MinLockTTL)
	}

	if !cfg.DB.Configured() || !cfg.Redis.Enabled() {
		log.Fatal().Msg("reconciliación requiere PostgreSQL y Redis configurados")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()

	stockUC := inventory.NewStockUseCase(
		postgres.NewTxRunner(pool),
		cache.NewRedisStockCache(rdb, cfg.Redis.StockCacheTTL),
		log,
	)

	err = cache.NewLocker(rdb).WithLock(ctx, lockKey, *lockTTL, func(ctx context.Context) error {
		tenants, err := resolveTenants(ctx, *tenantsFlag, pool)
		if err != nil {
			return err
		}
		for _, tenantID := range tenants {
			report, err := stockUC.Reconcile(ctx, tenantID)
			if err != nil {
				return err
			}
			log.Info().
				Str("tenant_id", tenantID).
				Int("checked", report.Checked).
				Int("drifts", len(report.Drifts)).
				Msg("stock reconciliado")
		}
		return nil
	})
	if errors.Is(err, cache.ErrLockHeld) {
		log.Warn().Msg("otra reconciliación en curso, se omite")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliación")
	}
}

func resolveTenants(ctx context.Context, flagValue string, q postgres.Querier) ([]string, error) {
	if flagValue == "" {
		return postgres.ListTenantIDs(ctx, q)
	}
	var out []string
	for _, id := range strings.Split(flagValue, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}
