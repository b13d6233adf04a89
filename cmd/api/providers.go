package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/config"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/handler"
	"github.com/xiebiao/fabric-inventory/internal/interface/http/router"
	"github.com/xiebiao/fabric-inventory/pkg/idempotency"
)

// Providers that need more than a plain constructor. They live outside
// wire.go so both the injector source and wire_gen.go can see them.

// provideClock reads "today" in the configured time zone.
func provideClock(cfg *config.Config) shared.Clock {
	return shared.NewClock(cfg.Server.Location())
}

// provideIdempotencyStore returns nil when Redis is disabled.
//
// The nil is returned as an untyped interface on purpose: a nil
// *redis.IdempotencyStore inside the interface would look enabled.
func provideIdempotencyStore(cfg *config.Config, client *goredis.Client) idempotency.Store {
	if client == nil {
		return nil
	}
	return redis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
}

// provideGinEngine builds the router from config.
func provideGinEngine(
	cfg *config.Config,
	log *zap.Logger,
	idem idempotency.Store,
	rollHandler *handler.RollHandler,
	saleHandler *handler.SaleHandler,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	opts := router.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Swagger:     cfg.Server.Mode != gin.ReleaseMode,
		Idempotency: idem,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}

	return router.New(log, opts, rollHandler, saleHandler)
}
