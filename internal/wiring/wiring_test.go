package wiring

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/config"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/cortex"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/openai"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Warehouse.Driver = "sqlite"
	cfg.Warehouse.DSN = filepath.Join(t.TempDir(), "wh.db")
	cfg.Warehouse.FactTable = "purchase_orders"
	cfg.Warehouse.VendorTable = "vendors"
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewCompleter(t *testing.T) {
	cfg := sqliteConfig(t)

	c, err := NewCompleter(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &cortex.Client{}, c)

	cfg.Completion.Provider = config.ProviderOpenAI
	cfg.Completion.APIKey = "sk-test"
	cfg.Completion.MaxTokens = 512
	c, err = NewCompleter(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &openai.Client{}, c)
	assert.Equal(t, 512, c.(*openai.Client).MaxTokens)

	cfg.Completion.Provider = "bard"
	_, err = NewCompleter(cfg, nil)
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	cfg := sqliteConfig(t)

	app, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.NotNil(t, app.Service.Warehouse)
	assert.NotNil(t, app.Service.Completer)
	assert.Nil(t, app.Service.Archive)
	assert.NoError(t, app.Warehouse.Ping(context.Background()))
}
