package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/supplychain-insight/internal/infra/db/warehouse"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
warehouse:
  driver: sqlite
  dsn: file:demo.db
  factTable: F_PURCHASING_ORDER
  vendorTable: D_VENDOR
completion:
  provider: openai
  apiKey: sk-test
  baseURL: http://gateway.local/v1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.WriteTimeoutSec)
	assert.Equal(t, warehouse.SQLite, cfg.Dialect())
	assert.Equal(t, "F_PURCHASING_ORDER", cfg.Tables().Fact)
	assert.Equal(t, ProviderOpenAI, cfg.Completion.Provider)
	assert.Equal(t, 1024, cfg.Sessions.MaxSessions)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("WAREHOUSE_DSN", "user:pw@account/db/schema")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, warehouse.Snowflake, cfg.Dialect())
	assert.Equal(t, warehouse.DefaultFactTable, cfg.Warehouse.FactTable)
	assert.Equal(t, ProviderCortex, cfg.Completion.Provider)
	assert.Equal(t, "SNOWFLAKE.CORTEX.COMPLETE", cfg.Completion.Function)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]string{
		"driver":   "warehouse:\n  driver: oracle\n  dsn: x\n",
		"dsn":      "warehouse:\n  driver: postgres\n",
		"table":    "warehouse:\n  driver: postgres\n  dsn: x\n  factTable: \"po; drop\"\n",
		"provider": "warehouse:\n  driver: postgres\n  dsn: x\ncompletion:\n  provider: bard\n",
		"apikey":   "warehouse:\n  driver: postgres\n  dsn: x\ncompletion:\n  provider: openai\n",
		"archive":  "warehouse:\n  driver: postgres\n  dsn: x\narchive:\n  enabled: true\n",
		"function": "warehouse:\n  driver: postgres\n  dsn: x\ncompletion:\n  function: \"f(1); drop\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("WAREHOUSE_DSN", "")
			t.Setenv("OPENAI_API_KEY", "")
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
