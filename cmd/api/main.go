// @title           Fabric Inventory API
// @version         1.0
// @description     Fabric roll inventory: add rolls, query stock, register sales.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/fabric-inventory/internal/infrastructure/config"
	"github.com/xiebiao/fabric-inventory/pkg/logger"
	"github.com/xiebiao/fabric-inventory/pkg/tracing"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Logger
	zlog, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{cfg.Log.Output},
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		zlog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("configuration loaded",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("timezone", cfg.Server.Timezone),
		zap.String("database", cfg.Database.Host+"/"+cfg.Database.DBName),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("mq", cfg.MQ.Enabled),
		zap.Bool("tracing", cfg.Tracing.Enabled),
	)

	// 3. Tracing, installed before anything asks for a tracer
	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		shutdownTracer = shutdown
		log.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	// 4. Dependencies (wire)
	engine, cleanup, err := InitializeApp(cfg, log)
	if err != nil {
		_ = shutdownTracer(context.Background())
		return err
	}

	// 5. HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 6. Wait for a signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err, ok := <-serverErr:
		if ok {
			runErr = err
		}
	}

	// 7. Graceful shutdown: stop accepting, drain in-flight requests, then
	// release publisher, Redis and MySQL, and flush spans last.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}

	log.Info("server exited")
	return runErr
}
