// Package redislock provides a per-key mutual exclusion shared by all service instances.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "lock:"
	defaultTTL     = 10 * time.Second
	defaultWait    = 3 * time.Second
	retryInterval  = 25 * time.Millisecond
	releaseTimeout = time.Second
)

var (
	// ErrLockTimeout возвращается, когда ключ не удалось захватить за отведенное время
	ErrLockTimeout = errors.New("redislock: lock wait timeout")

	// ErrLockFailed возвращается при ошибках Redis
	ErrLockFailed = errors.New("redislock: failed to acquire lock")
)

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker распределенная блокировка на SET NX PX
// TTL ограничивает время владения, если процесс упал, не освободив ключ
type Locker struct {
	client redis.Cmdable
	ttl    time.Duration
	wait   time.Duration
	log    Logger
}

type Logger interface {
	Warn(format string, v ...interface{})
}

func New(client redis.Cmdable, ttl, wait time.Duration, log Logger) *Locker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if wait <= 0 {
		wait = defaultWait
	}
	return &Locker{client: client, ttl: ttl, wait: wait, log: log}
}

// Lock захватывает ключ, ожидая не дольше wait
// Возвращает функцию освобождения; ключ освобождается только если токен совпадает
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: key=%s: %v", ErrLockFailed, key, err)
		}
		if ok {
			return l.releaseFunc(redisKey, token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: key=%s: %w", ErrLockTimeout, key, context.DeadlineExceeded)
		case <-ticker.C:
		}
	}
}

func (l *Locker) releaseFunc(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.log.Warn("redislock: failed to release key=%s: %v", redisKey, err)
		}
	}
}
