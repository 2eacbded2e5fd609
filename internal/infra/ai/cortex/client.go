package cortex

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/db/warehouse"
)

// DefaultFunction is the Snowflake Cortex completion function.
const DefaultFunction = "SNOWFLAKE.CORTEX.COMPLETE"

// Client completes prompts through a SQL function on the warehouse session.
// Model and prompt are always bound parameters.
type Client struct {
	db       *sql.DB
	dialect  warehouse.Dialect
	function string
}

// NewClient binds to the warehouse session db; dialect picks the bind markers.
func NewClient(db *sql.DB, dialect warehouse.Dialect, function string) *Client {
	if function == "" {
		function = DefaultFunction
	}
	return &Client{db: db, dialect: dialect, function: function}
}

func (c *Client) query() string {
	return fmt.Sprintf("SELECT %s(%s, %s) AS response", c.function, c.dialect.Placeholder(1), c.dialect.Placeholder(2))
}

func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = ai.DefaultModel
	}
	var out sql.NullString
	if err := c.db.QueryRowContext(ctx, c.query(), model, prompt).Scan(&out); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ai.ErrCompletion, c.function, err)
	}
	if !out.Valid {
		return "", fmt.Errorf("%w: %s returned no text", ai.ErrCompletion, c.function)
	}
	return out.String, nil
}
