// Package cache contiene el agregado de stock cacheado en Redis y el lock de reconciliación.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/pkg/config"
)

var _ ports.StockCache = (*RedisStockCache)(nil)

// RedisStockCache stock en unidades base por (tenant, producto). Claves "stock:{<tenant>:<producto>}"
// y su generación en "stockgen:{<tenant>:<producto>}"; el hash tag deja ambas en el mismo slot.
type RedisStockCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// fillScript SET condicionado a que la generación no haya cambiado.
// KEYS[1] stock, KEYS[2] generación; ARGV[1] generación leída, ARGV[2] qty, ARGV[3] ttl en ms.
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisStockCache construye la caché. ttl <= 0 = sin expiración.
func NewRedisStockCache(rdb redis.UniversalClient, ttl time.Duration) *RedisStockCache {
	return &RedisStockCache{rdb: rdb, ttl: ttl}
}

func stockKey(tenantID, productID string) string {
	return "stock:{" + tenantID + ":" + productID + "}"
}

func genKey(tenantID, productID string) string {
	return "stockgen:{" + tenantID + ":" + productID + "}"
}

// Get devuelve (qty, true) si hay valor; (0, false) si la clave no existe.
func (c *RedisStockCache) Get(ctx context.Context, tenantID, productID string) (int64, bool, error) {
	v, err := c.rdb.Get(ctx, stockKey(tenantID, productID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get stock: %w", err)
	}
	qty, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("stock cacheado corrupto %q: %w", v, err)
	}
	return qty, true, nil
}

// Generation generación actual del producto; 0 si nunca se invalidó.
func (c *RedisStockCache) Generation(ctx context.Context, tenantID, productID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(tenantID, productID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generación: %w", err)
	}
	return gen, nil
}

// Fill guarda el stock recalculado si la generación sigue siendo gen.
func (c *RedisStockCache) Fill(ctx context.Context, tenantID, productID string, gen, qty int64) (bool, error) {
	ttl := c.ttl.Milliseconds()
	if ttl < 0 {
		ttl = 0
	}
	keys := []string{stockKey(tenantID, productID), genKey(tenantID, productID)}
	n, err := fillScript.Run(ctx, c.rdb, keys, strconv.FormatInt(gen, 10), qty, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("redis set stock: %w", err)
	}
	return n == 1, nil
}

// Invalidate avanza la generación y borra las claves de los productos indicados, en una sola MULTI.
func (c *RedisStockCache) Invalidate(ctx context.Context, tenantID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, genKey(tenantID, id))
			pipe.Del(ctx, stockKey(tenantID, id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidar stock: %w", err)
	}
	return nil
}
