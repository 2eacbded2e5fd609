// Package wiring assembles the dashboard service from configuration. Both the
// HTTP server and the CLI start here.
package wiring

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/application"
	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	"github.com/bryanwahyu/supplychain-insight/internal/config"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/cortex"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/openai"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/db/warehouse"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/storage"
)

// App holds the assembled service and the handles main needs to close or probe.
type App struct {
	Service   *dashboard.Service
	DB        *sql.DB
	Warehouse *warehouse.Repository
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// Build connects the warehouse, picks the completion provider and, when
// enabled, the report archive.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := warehouse.Connect(ctx, cfg.Dialect(), cfg.Warehouse.DSN)
	if err != nil {
		return nil, err
	}
	repo := warehouse.NewRepository(db, warehouse.Builder{Dialect: cfg.Dialect(), Tables: cfg.Tables()}, log.Named("warehouse"))

	completer, err := NewCompleter(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	svc := &dashboard.Service{
		Warehouse: repo,
		Completer: completer,
		Clock:     application.SystemClock{},
		Log:       log.Named("dashboard"),
	}

	if cfg.Archive.Enabled {
		a := cfg.Archive
		store, err := storage.New(ctx, a.Endpoint, a.Region, a.BucketName, a.AccessKey, a.SecretKey, a.Prefix, a.UseSSL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("archive init: %w", err)
		}
		svc.Archive = store
		log.Info("report archive enabled", zap.String("bucket", a.BucketName), zap.String("prefix", a.Prefix))
	}

	log.Info("dashboard ready",
		zap.String("warehouse", cfg.Warehouse.Driver),
		zap.String("completion", cfg.Completion.Provider),
	)
	return &App{Service: svc, DB: db, Warehouse: repo}, nil
}

// NewCompleter returns the completion client for the configured provider.
// Cortex runs inside the warehouse and shares its connection.
func NewCompleter(cfg *config.Config, db *sql.DB) (ai.Completer, error) {
	switch cfg.Completion.Provider {
	case config.ProviderCortex:
		return cortex.NewClient(db, cfg.Dialect(), cfg.Completion.Function), nil
	case config.ProviderOpenAI:
		c := openai.NewClient(cfg.Completion.APIKey, cfg.Completion.BaseURL)
		if cfg.Completion.MaxTokens > 0 {
			c.MaxTokens = cfg.Completion.MaxTokens
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Completion.Provider)
	}
}
