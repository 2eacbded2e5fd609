package warehouse

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

const testSchema = `
CREATE TABLE D_VENDOR (VENDOR_ID TEXT PRIMARY KEY, NAME TEXT);
CREATE TABLE F_PURCHASING_ORDER (
    PURCHASING_DOCUMENT_ID TEXT,
    VENDOR_ID TEXT,
    MATERIAL_ID TEXT,
    PLANT_ID TEXT,
    PURCHASING_ORGANIZATION_ID TEXT,
    PURCHASE_ORDER_AMOUNT INTEGER,
    PURCHASE_ORDER_QUANTITY INTEGER,
    PURCHASING_DELIVERED_QUANTITY INTEGER,
    PURCHASE_DELIVER_LATE_DAYS INTEGER,
    PURCHASE_LATE_AMOUNT INTEGER,
    PURCHASE_ITEM_LATE_COUNT INTEGER,
    PURCHASE_ORDER_ITEM_COUNT INTEGER
);
INSERT INTO D_VENDOR VALUES ('V1', 'Acme Corp'), ('V2', 'Globex'), ('V3', 'Initech');
INSERT INTO F_PURCHASING_ORDER VALUES
    ('PO1', 'V1', 'M1', 'P1', 'O1', 100000, 10, 10, 0, 0, 0, 4),
    ('PO2', 'V1', 'M2', 'P1', 'O1', 50000, 5, 4, 2, 50000, 1, 2),
    ('PO3', 'V2', 'M1', 'P2', 'O2', 50000, 0, 0, 4, 0, 2, 4);
`

func newTestRepo(t *testing.T, schema string) *Repository {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "warehouse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(schema)
	require.NoError(t, err)
	return NewRepository(db, Builder{Dialect: SQLite, Tables: testTables}, nil)
}

func TestRepositoryMetrics_Spend(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	ctx := context.Background()

	all, err := repo.Metrics(ctx, procurement.CategorySpend, "")
	require.NoError(t, err)
	assert.Equal(t, 3.0, all.Value("TOTAL_POS"))
	assert.Equal(t, 2.0, all.Value("TOTAL_VENDORS"))
	assert.InDelta(t, 2000.0, all.Value("TOTAL_SPEND"), 1e-9)
	assert.InDelta(t, 666.666, all.Value("AVG_PO_VALUE"), 1e-2)

	acme, err := repo.Metrics(ctx, procurement.CategorySpend, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, 2.0, acme.Value("TOTAL_POS"))
	assert.Equal(t, 1.0, acme.Value("TOTAL_VENDORS"))
	assert.InDelta(t, 1500.0, acme.Value("TOTAL_SPEND"), 1e-9)
	assert.InDelta(t, 750.0, acme.Value("AVG_PO_VALUE"), 1e-9)
}

func TestRepositoryMetrics_VendorPerformance(t *testing.T) {
	repo := newTestRepo(t, testSchema)

	m, err := repo.Metrics(context.Background(), procurement.CategoryVendorPerformance, "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Value("TOTAL_VENDORS"))
	assert.InDelta(t, 90.0, m.Value("DELIVERY_RATE"), 1e-9)
	assert.InDelta(t, 1.0, m.Value("AVG_LATE_DAYS"), 1e-9)
	assert.InDelta(t, 33.333, m.Value("LATE_DELIVERY_PCT"), 1e-2)
}

func TestRepositoryMetrics_ProcessAndMaterial(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	ctx := context.Background()

	proc, err := repo.Metrics(ctx, procurement.CategoryProcessEfficiency, "")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, proc.Value("AVG_PROCESS_DAYS"), 1e-9)
	assert.Equal(t, 2.0, proc.Value("TOTAL_ORGS"))
	assert.Equal(t, 3.0, proc.Value("LATE_ITEMS"))
	assert.Equal(t, 10.0, proc.Value("TOTAL_ITEMS"))

	mat, err := repo.Metrics(ctx, procurement.CategoryMaterialUsage, "")
	require.NoError(t, err)
	assert.Equal(t, 2.0, mat.Value("TOTAL_MATERIALS"))
	assert.Equal(t, 15.0, mat.Value("TOTAL_QUANTITY"))
	assert.Equal(t, 2.0, mat.Value("TOTAL_PLANTS"))
	assert.InDelta(t, 5.0, mat.Value("AVG_ORDER_QTY"), 1e-9)
}

// Globex only has a zero-quantity order, so every denominator is zero or NULL.
func TestRepositoryMetrics_ZeroDenominatorsReadAsZero(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	ctx := context.Background()

	for _, vendor := range []string{"Globex", "Nobody Ltd"} {
		m, err := repo.Metrics(ctx, procurement.CategoryVendorPerformance, vendor)
		require.NoError(t, err, vendor)
		require.Len(t, m.Values, 4)
		for col, v := range m.Values {
			assert.Zero(t, v, "%s %s", vendor, col)
		}
	}
}

func TestRepositoryMetrics_EmptyWarehouse(t *testing.T) {
	schema := `
CREATE TABLE D_VENDOR (VENDOR_ID TEXT PRIMARY KEY, NAME TEXT);
CREATE TABLE F_PURCHASING_ORDER (
    PURCHASING_DOCUMENT_ID TEXT, VENDOR_ID TEXT, MATERIAL_ID TEXT, PLANT_ID TEXT,
    PURCHASING_ORGANIZATION_ID TEXT, PURCHASE_ORDER_AMOUNT INTEGER,
    PURCHASE_ORDER_QUANTITY INTEGER, PURCHASING_DELIVERED_QUANTITY INTEGER,
    PURCHASE_DELIVER_LATE_DAYS INTEGER, PURCHASE_LATE_AMOUNT INTEGER,
    PURCHASE_ITEM_LATE_COUNT INTEGER, PURCHASE_ORDER_ITEM_COUNT INTEGER
);`
	repo := newTestRepo(t, schema)
	for _, c := range procurement.Categories() {
		m, err := repo.Metrics(context.Background(), c, "")
		require.NoError(t, err, c)
		for col, v := range m.Values {
			assert.Zero(t, v, "%s %s", c, col)
		}
	}
}

func TestRepositoryMetrics_HostileVendorIsBound(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	ctx := context.Background()

	m, err := repo.Metrics(ctx, procurement.CategorySpend, "x') OR 1=1; DROP TABLE D_VENDOR; --")
	require.NoError(t, err)
	assert.Zero(t, m.Value("TOTAL_POS"))

	names, err := repo.Vendors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Globex"}, names)
}

func TestRepositoryMetrics_Idempotent(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	ctx := context.Background()

	a, err := repo.Metrics(ctx, procurement.CategoryVendorPerformance, "Acme Corp")
	require.NoError(t, err)
	b, err := repo.Metrics(ctx, procurement.CategoryVendorPerformance, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRepositoryMetrics_QueryError(t *testing.T) {
	repo := newTestRepo(t, `CREATE TABLE D_VENDOR (VENDOR_ID TEXT, NAME TEXT);`)
	_, err := repo.Metrics(context.Background(), procurement.CategorySpend, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, procurement.ErrWarehouse)
}

func TestRepositoryTopVendors(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	ctx := context.Background()

	spend, err := repo.TopVendors(ctx, procurement.RankBySpend)
	require.NoError(t, err)
	assert.Equal(t, procurement.RankBySpend, spend.Kind)
	require.Len(t, spend.Entries, 2)
	assert.Equal(t, "Acme Corp", spend.Entries[0].Name)
	assert.InDelta(t, 1500.0, spend.Entries[0].TotalSpend, 1e-9)
	assert.InDelta(t, 75.0, spend.Entries[0].SpendShare, 1e-9)
	assert.InDelta(t, 25.0, spend.Entries[1].SpendShare, 1e-9)

	eff, err := repo.TopVendors(ctx, procurement.RankByEfficiency)
	require.NoError(t, err)
	require.Len(t, eff.Entries, 2)
	acme := eff.Entries[0]
	assert.Equal(t, "Acme Corp", acme.Name)
	assert.Equal(t, 6.0, acme.TotalItems)
	assert.Equal(t, 1.0, acme.LateItems)
	assert.InDelta(t, 83.333, acme.Efficiency, 1e-2)
	assert.InDelta(t, 2.0, acme.AvgProcessDays, 1e-9)
	assert.InDelta(t, 50.0, eff.Entries[1].Efficiency, 1e-9)
}

func TestRepositoryVendors(t *testing.T) {
	repo := newTestRepo(t, testSchema)
	names, err := repo.Vendors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Corp", "Globex"}, names)
}
