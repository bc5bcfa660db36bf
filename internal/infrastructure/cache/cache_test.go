package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/infrastructure/cache"
	"github.com/jhoicas/pdv-api/pkg/config"
)

func redisOrSkip(t *testing.T) config.RedisConfig {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definida")
	}
	return config.RedisConfig{Addr: addr}
}

func TestRedisStockCache(t *testing.T) {
	cfg := redisOrSkip(t)
	ctx := context.Background()
	rdb, err := cache.NewRedisClient(ctx, cfg)
	require.NoError(t, err)
	defer rdb.Close()

	c := cache.NewRedisStockCache(rdb, time.Minute)
	tenant, product := uuid.NewString(), uuid.NewString()

	_, ok, err := c.Get(ctx, tenant, product)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err := c.Generation(ctx, tenant, product)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)
	stored, err := c.Fill(ctx, tenant, product, gen, -3)
	require.NoError(t, err)
	assert.True(t, stored)
	qty, ok, err := c.Get(ctx, tenant, product)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(-3), qty)

	require.NoError(t, c.Invalidate(ctx, tenant, product))
	_, ok, err = c.Get(ctx, tenant, product)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStockCache_FillConGeneracionVencida(t *testing.T) {
	cfg := redisOrSkip(t)
	ctx := context.Background()
	rdb, err := cache.NewRedisClient(ctx, cfg)
	require.NoError(t, err)
	defer rdb.Close()

	c := cache.NewRedisStockCache(rdb, time.Minute)
	tenant, product := uuid.NewString(), uuid.NewString()

	gen, err := c.Generation(ctx, tenant, product)
	require.NoError(t, err)
	// Un commit invalida entre la lectura de la generación y el relleno.
	require.NoError(t, c.Invalidate(ctx, tenant, product))

	stored, err := c.Fill(ctx, tenant, product, gen, 10)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, tenant, product)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err = c.Generation(ctx, tenant, product)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	stored, err = c.Fill(ctx, tenant, product, gen, 6)
	require.NoError(t, err)
	assert.True(t, stored)
	qty, _, err := c.Get(ctx, tenant, product)
	require.NoError(t, err)
	assert.Equal(t, int64(6), qty)
}

func TestLocker_SegundoProcesoNoEntra(t *testing.T) {
	cfg := redisOrSkip(t)
	ctx := context.Background()
	rdb, err := cache.NewRedisClient(ctx, cfg)
	require.NoError(t, err)
	defer rdb.Close()

	l := cache.NewLocker(rdb)
	key := "lock:test:" + uuid.NewString()

	err = l.WithLock(ctx, key, 5*time.Second, func(ctx context.Context) error {
		inner := l.WithLock(ctx, key, 5*time.Second, func(context.Context) error { return nil })
		assert.ErrorIs(t, inner, cache.ErrLockHeld)
		return nil
	})
	require.NoError(t, err)

	ran := false
	require.NoError(t, l.WithLock(ctx, key, 5*time.Second, func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
}

func TestLocker_TTLInvalidoNoEjecuta(t *testing.T) {
	l := cache.NewLocker(nil)
	for _, ttl := range []time.Duration{0, -time.Second, time.Nanosecond, 999 * time.Microsecond} {
		ran := false
		err := l.WithLock(context.Background(), "lock:test", ttl, func(context.Context) error {
			ran = true
			return nil
		})
		assert.ErrorIs(t, err, cache.ErrInvalidLockTTL, ttl.String())
		assert.False(t, ran, ttl.String())
	}
}
