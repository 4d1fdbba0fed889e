package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskapp/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
)

// Counter keeps fixed-window request counters.
type Counter interface {
	// Increment bumps key and returns the new count. The window starts with the first hit.
	Increment(ctx context.Context, key string, windowSeconds int) (int64, error)
}

type redisCounter struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCounter(client *redis.Client, ot otel.Otel) Counter {
	return &redisCounter{
		client: client,
		otel:   ot,
	}
}

// Increment implements Counter.
func (c *redisCounter) Increment(ctx context.Context, key string, windowSeconds int) (count int64, err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Increment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	var incr *redis.IntCmd

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, time.Second*time.Duration(windowSeconds))

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCounter", "Increment").Msg("failed to increment counter")

		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	return incr.Val(), nil
}
