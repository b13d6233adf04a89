package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/fabric-inventory/internal/infrastructure/config"
)

const pingTimeout = 5 * time.Second

// NewClient creates the Redis client.
// Design notes:
// 1. Pool (PoolSize, MinIdleConns) and timeouts come from config
// 2. The connection is checked with PING before the client is handed out
// 3. Returns a nil client when redis.enabled is false; callers treat that as
// "idempotency off"
func NewClient(cfg *config.Config, log *zap.Logger) (*redis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("redis disabled, idempotency keys are not enforced")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis %s: %w", cfg.Redis.Addr(), err)
	}

	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()), zap.Int("db", cfg.Redis.DB))

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}
