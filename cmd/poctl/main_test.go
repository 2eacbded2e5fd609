package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = `
CREATE TABLE D_VENDOR (VENDOR_ID TEXT PRIMARY KEY, NAME TEXT);
CREATE TABLE F_PURCHASING_ORDER (
    PURCHASING_DOCUMENT_ID TEXT, VENDOR_ID TEXT, MATERIAL_ID TEXT, PLANT_ID TEXT,
    PURCHASING_ORGANIZATION_ID TEXT, PURCHASE_ORDER_AMOUNT INTEGER, PURCHASE_ORDER_QUANTITY INTEGER,
    PURCHASING_DELIVERED_QUANTITY INTEGER, PURCHASE_DELIVER_LATE_DAYS INTEGER, PURCHASE_LATE_AMOUNT INTEGER,
    PURCHASE_ITEM_LATE_COUNT INTEGER, PURCHASE_ORDER_ITEM_COUNT INTEGER
);
INSERT INTO D_VENDOR VALUES ('V1', 'Acme Corp'), ('V2', 'Globex');
INSERT INTO F_PURCHASING_ORDER VALUES
    ('PO1', 'V1', 'M1', 'P1', 'O1', 100000, 10, 10, 0, 0, 0, 4),
    ('PO2', 'V1', 'M2', 'P1', 'O1', 50000, 5, 4, 2, 50000, 1, 2),
    ('PO3', 'V2', 'M1', 'P2', 'O2', 50000, 0, 0, 4, 0, 2, 4);
`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "warehouse.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(seed)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := fmt.Sprintf(`warehouse:
  driver: sqlite
  dsn: %s
  factTable: F_PURCHASING_ORDER
  vendorTable: D_VENDOR
logging:
  level: warn
`, dbPath)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "poctl version")
}

func TestAnalyzeRejectsUnknownCategory(t *testing.T) {
	_, err := run(t, "analyze", "--category", "bogus")
	assert.ErrorContains(t, err, "invalid category")
}

func TestAnalyzeTilesJSON(t *testing.T) {
	path := writeConfig(t)
	out, err := run(t, "--config", path, "analyze", "-c", "spend", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Category string `json:"category"`
		Tiles    []struct {
			Label   string `json:"label"`
			Display string `json:"display"`
		} `json:"tiles"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Spend Analysis", got.Category)
	require.Len(t, got.Tiles, 4)
	assert.Equal(t, "3", got.Tiles[0].Display)
	assert.Equal(t, "$2,000", got.Tiles[2].Display)
}

func TestVendors(t *testing.T) {
	path := writeConfig(t)
	out, err := run(t, "--config", path, "vendors")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp\nGlobex\n", out)
}
