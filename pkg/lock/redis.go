package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// compare-and-delete so a holder whose TTL expired cannot free someone else's lock
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

type RedisOptions struct {
	Address  string
	Password string
	DB       int
	// TTL bounds how long a crashed holder keeps the key.
	TTL time.Duration
	// RetryInterval is the poll period while the key is held elsewhere.
	RetryInterval time.Duration
}

// RedisLocker is a single-instance Redis lock (SET NX PX plus a token).
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	logger        *zap.Logger
}

func NewRedisLocker(opts RedisOptions, logger *zap.Logger) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 200 * time.Millisecond
	}
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Address,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl:           opts.TTL,
		retryInterval: opts.RetryInterval,
		logger:        logger.Named("lock"),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, token) })
	}, nil
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := l.client.Eval(ctx, releaseScript, []string{key}, token).Int()
	if err != nil {
		l.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		return
	}
	if n == 0 {
		l.logger.Warn("lock expired before release", zap.String("key", key), zap.Error(ErrNotHeld))
	}
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
