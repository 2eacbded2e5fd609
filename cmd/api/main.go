package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	"github.com/bryanwahyu/supplychain-insight/internal/config"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/httpserver"
	"github.com/bryanwahyu/supplychain-insight/internal/logger"
	"github.com/bryanwahyu/supplychain-insight/internal/metrics"
	"github.com/bryanwahyu/supplychain-insight/internal/middleware"
	"github.com/bryanwahyu/supplychain-insight/internal/wiring"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	metrics.Init()

	ctx := context.Background()

	// the dashboard is useless without its warehouse, so a failed connect halts startup
	app, err := wiring.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("warehouse connect error", zap.Error(err))
	}
	defer app.Close()

	ttl := time.Duration(cfg.Sessions.TTLMinutes) * time.Minute
	sessions := dashboard.NewSessions(cfg.Sessions.MaxSessions, ttl)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
	stopPruner := make(chan struct{})
	go limiter.RunPruner(time.Minute, ttl, stopPruner)

	handler := httpserver.NewRouter(app.Service, httpserver.Deps{
		Sessions:   sessions,
		SessionTTL: ttl,
		Limiter:    limiter,
		Health: map[string]middleware.HealthChecker{
			"warehouse": &middleware.WarehouseHealthChecker{Warehouse: app.Warehouse},
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Server.APIKeys,
		Log:            zl.Named("http"),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		zl.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zl.Info("shutting down server")
	close(stopPruner)

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
}
