package cortex

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/db/warehouse"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cortex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// sqlite's two-argument coalesce stands in for the completion function and
// echoes the first bound argument back.
func TestClientComplete_BindsModelAndPrompt(t *testing.T) {
	c := NewClient(openDB(t), warehouse.SQLite, "coalesce")
	out, err := c.Complete(context.Background(), "claude-3-5-sonnet", "Analyze 'quoted' text")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet", out)
}

func TestClientComplete_DefaultModel(t *testing.T) {
	c := NewClient(openDB(t), warehouse.SQLite, "coalesce")
	out, err := c.Complete(context.Background(), "", "p")
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultModel, out)
}

func TestClientComplete_Failure(t *testing.T) {
	c := NewClient(openDB(t), warehouse.SQLite, "no_such_function")
	_, err := c.Complete(context.Background(), "mixtral-8x7b", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrCompletion)
}

func TestNewClient_DefaultFunction(t *testing.T) {
	c := NewClient(nil, warehouse.Snowflake, "")
	assert.Equal(t, DefaultFunction, c.function)
}

func TestClientQuery_FollowsDialect(t *testing.T) {
	cases := map[warehouse.Dialect]string{
		warehouse.Snowflake: "SELECT SNOWFLAKE.CORTEX.COMPLETE(?, ?) AS response",
		warehouse.MySQL:     "SELECT SNOWFLAKE.CORTEX.COMPLETE(?, ?) AS response",
		warehouse.Postgres:  "SELECT SNOWFLAKE.CORTEX.COMPLETE($1, $2) AS response",
	}
	for d, want := range cases {
		assert.Equal(t, want, NewClient(nil, d, "").query(), d)
	}
}
