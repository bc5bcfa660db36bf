package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld otra instancia ya tiene el lock.
var ErrLockHeld = errors.New("lock tomado por otro proceso")

// ErrInvalidLockTTL ttl por debajo de la resolución de Redis (milisegundos).
var ErrInvalidLockTTL = errors.New("ttl de lock inválido")

// MinLockTTL menor ttl aceptado por WithLock.
const MinLockTTL = time.Millisecond

// Locker lock distribuido para procesos de una sola instancia (reconciliación de stock).
type Locker struct {
	client *redislock.Client
}

// NewLocker construye el locker sobre el cliente Redis.
func NewLocker(rdb redis.UniversalClient) *Locker {
	return &Locker{client: redislock.New(rdb)}
}

// WithLock ejecuta fn si obtiene el lock key por ttl; si no, devuelve ErrLockHeld sin ejecutar.
// El lock se refresca a mitad de ttl mientras fn corre. ttl menor que MinLockTTL devuelve
// ErrInvalidLockTTL sin tocar Redis.
func (l *Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if ttl < MinLockTTL {
		return fmt.Errorf("%w: %s", ErrInvalidLockTTL, ttl)
	}
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLockHeld
	}
	if err != nil {
		return fmt.Errorf("obtener lock %s: %w", key, err)
	}
	defer func() { _ = lock.Release(context.Background()) }()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if err := lock.Refresh(runCtx, ttl, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()
	return fn(runCtx)
}
