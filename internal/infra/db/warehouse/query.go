package warehouse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

// Dialect is both the database/sql driver name and the placeholder style.
type Dialect string

const (
	Postgres  Dialect = "postgres"
	MySQL     Dialect = "mysql"
	SQLite    Dialect = "sqlite"
	Snowflake Dialect = "snowflake"
)

func (d Dialect) Valid() bool {
	switch d {
	case Postgres, MySQL, SQLite, Snowflake:
		return true
	}
	return false
}

// Placeholder returns the n-th (1-based) bind marker.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

const (
	DefaultFactTable   = "HOL_DATABASE.DHSAPPROD_DHSAPHANA_BI.F_PURCHASING_ORDER"
	DefaultVendorTable = "HOL_DATABASE.DHSAPPROD_DHSAPHANA_BI.D_VENDOR"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// ValidIdentifier reports whether name is a plain, optionally db.schema.
// qualified, identifier that may be placed into a query unbound.
func ValidIdentifier(name string) bool {
	return identRe.MatchString(name)
}

// Tables names the purchase-order fact table and the vendor dimension.
type Tables struct {
	Fact   string
	Vendor string
}

// Validate rejects anything but a plain (optionally db.schema. qualified) identifier,
// since table names are the only text placed into queries unbound.
func (t Tables) Validate() error {
	for _, name := range []string{t.Fact, t.Vendor} {
		if !ValidIdentifier(name) {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}

// Builder assembles the fixed statements for one warehouse.
type Builder struct {
	Dialect Dialect
	Tables  Tables
}

// Metrics builds the aggregate query of p. A non-empty vendor narrows it
// through a vendor-name subquery bound as the only parameter.
func (b Builder) Metrics(p procurement.Profile, vendor string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT\n")
	for i, m := range p.Metrics {
		fmt.Fprintf(&sb, "    %s AS %s", m.Expr, m.Column)
		if i < len(p.Metrics)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "FROM %s", b.Tables.Fact)

	var args []any
	switch {
	case vendor != "" && p.Condition != "":
		fmt.Fprintf(&sb, "\nWHERE 1=1 AND %s AND %s", b.vendorFilter(1), p.Condition)
		args = append(args, vendor)
	case vendor != "":
		fmt.Fprintf(&sb, "\nWHERE 1=1 AND %s", b.vendorFilter(1))
		args = append(args, vendor)
	case p.Condition != "":
		fmt.Fprintf(&sb, "\nWHERE %s", p.Condition)
	}
	return sb.String(), args
}

func (b Builder) vendorFilter(n int) string {
	return fmt.Sprintf("VENDOR_ID IN (SELECT VENDOR_ID FROM %s WHERE NAME = %s)",
		b.Tables.Vendor, b.Dialect.Placeholder(n))
}

// Ranking returns the leaderboard statement for kind.
func (b Builder) Ranking(kind procurement.RankingKind) string {
	if kind == procurement.RankByEfficiency {
		return b.efficiencyRanking()
	}
	return b.spendRanking()
}

func (b Builder) spendRanking() string {
	return fmt.Sprintf(`SELECT
    v.NAME,
    COALESCE(SUM(p.PURCHASE_ORDER_AMOUNT / 100.0), 0) AS TOTAL_SPEND,
    COALESCE(SUM(p.PURCHASE_ORDER_AMOUNT / 100.0) / NULLIF((
        SELECT SUM(PURCHASE_ORDER_AMOUNT / 100.0)
        FROM %[1]s
    ), 0) * 100, 0) AS SPEND_PERCENTAGE
FROM %[2]s v
INNER JOIN %[1]s p
    ON v.VENDOR_ID = p.VENDOR_ID
GROUP BY v.NAME
ORDER BY TOTAL_SPEND DESC
LIMIT %[3]d`, b.Tables.Fact, b.Tables.Vendor, procurement.TopVendorLimit)
}

func (b Builder) efficiencyRanking() string {
	return fmt.Sprintf(`SELECT
    v.NAME,
    COALESCE(AVG(NULLIF(p.PURCHASE_DELIVER_LATE_DAYS, 0)), 0) AS AVG_PROCESS_DAYS,
    COALESCE(SUM(p.PURCHASE_ITEM_LATE_COUNT), 0) AS LATE_ITEMS,
    COALESCE(SUM(p.PURCHASE_ORDER_ITEM_COUNT), 0) AS TOTAL_ITEMS,
    COALESCE((1 - CAST(SUM(p.PURCHASE_ITEM_LATE_COUNT) AS FLOAT) /
        NULLIF(SUM(p.PURCHASE_ORDER_ITEM_COUNT), 0)) * 100, 0) AS EFFICIENCY_RATE
FROM %[2]s v
INNER JOIN %[1]s p
    ON v.VENDOR_ID = p.VENDOR_ID
GROUP BY v.NAME
HAVING SUM(p.PURCHASE_ORDER_ITEM_COUNT) > 0
ORDER BY TOTAL_ITEMS DESC
LIMIT %[3]d`, b.Tables.Fact, b.Tables.Vendor, procurement.TopVendorLimit)
}

// VendorNames lists vendors that have at least one purchase order.
func (b Builder) VendorNames() string {
	return fmt.Sprintf(`SELECT DISTINCT v.NAME
FROM %s v
INNER JOIN %s p
    ON v.VENDOR_ID = p.VENDOR_ID
ORDER BY v.NAME`, b.Tables.Vendor, b.Tables.Fact)
}
