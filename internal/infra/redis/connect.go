package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-parkgate/config"
	repository "github.com/vogiaan1904/ticketbottle-parkgate/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
	pkgRedis "github.com/vogiaan1904/ticketbottle-parkgate/pkg/redis"
)

func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	cli, err := pkgRedis.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return cli, nil
}

// NewQueryCache returns the Redis-backed cache when enabled and an
// in-process one otherwise. The returned func releases the connection.
func NewQueryCache(ctx context.Context, cfg *config.Config, l logger.Logger) (repository.QueryCache, func(), error) {
	if !cfg.Redis.Enabled {
		return repository.NewMemoryQueryCache(cfg.API.StaleWindow, clock.Real()), func() {}, nil
	}

	cli, err := Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	l.Infof(ctx, "infra.redis.NewQueryCache: connected to %s", cfg.Redis.Addr)

	closeFn := func() {
		if err := cli.Close(); err != nil {
			l.Warnf(context.Background(), "infra.redis.NewQueryCache: close: %v", err)
		}
	}
	return repository.NewRedisQueryCache(cli, cfg.API.StaleWindow, l), closeFn, nil
}
