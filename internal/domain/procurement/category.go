package procurement

import (
	"errors"
	"strings"
)

// ErrUnknownCategory is returned when a category label or slug is not one of the four analyses.
var ErrUnknownCategory = errors.New("unknown analysis category")

// Category identifies one of the fixed analyses. The value is the label shown in the selector.
type Category string

const (
	CategorySpend             Category = "Spend Analysis"
	CategoryVendorPerformance Category = "Vendor Performance"
	CategoryMaterialUsage     Category = "Material Usage"
	CategoryProcessEfficiency Category = "Process Efficiency"
)

// RankingKind selects which leaderboard is used as narrative context.
type RankingKind string

const (
	RankBySpend      RankingKind = "spend"
	RankByEfficiency RankingKind = "efficiency"
)

// Metric is one aggregate column of a category. The same record drives the
// SELECT list, the dashboard tile and the prompt line, so the three stay in step.
type Metric struct {
	Column       string
	Expr         string
	Label        string
	PromptLabel  string
	TileFormat   Format
	PromptFormat Format
}

// Profile holds everything that varies by category.
type Profile struct {
	Category Category
	Slug     string

	// Subject completes "Analyze <subject> ...".
	Subject        string
	ContextHeading string
	Focus          string

	// Condition is the base WHERE condition of the metrics query, empty when none.
	Condition string
	Ranking   RankingKind
	Metrics   []Metric
}

// Columns returns the metric column names in query order.
func (p Profile) Columns() []string {
	cols := make([]string, len(p.Metrics))
	for i, m := range p.Metrics {
		cols[i] = m.Column
	}
	return cols
}

var (
	totalVendors = Metric{
		Column: "TOTAL_VENDORS", Expr: "COUNT(DISTINCT VENDOR_ID)",
		Label: "Total Vendors", PromptLabel: "Total Vendors",
		TileFormat: FormatCount, PromptFormat: FormatCount,
	}

	profiles = []Profile{
		{
			Category:       CategorySpend,
			Slug:           "spend",
			Subject:        "spend patterns",
			ContextHeading: "Top vendors by spend",
			Ranking:        RankBySpend,
			Metrics: []Metric{
				{
					Column: "TOTAL_POS", Expr: "COUNT(DISTINCT PURCHASING_DOCUMENT_ID)",
					Label: "Total POs", PromptLabel: "Total POs",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
				totalVendors,
				{
					Column: "TOTAL_SPEND", Expr: "COALESCE(SUM(PURCHASE_ORDER_AMOUNT / 100.0), 0)",
					Label: "Total Spend", PromptLabel: "Total Spend",
					TileFormat: FormatMoney, PromptFormat: FormatMoneyCents,
				},
				{
					Column: "AVG_PO_VALUE", Expr: "COALESCE(AVG(PURCHASE_ORDER_AMOUNT / 100.0), 0)",
					Label: "Avg PO Value", PromptLabel: "Average PO Value",
					TileFormat: FormatMoney, PromptFormat: FormatCents,
				},
			},
		},
		{
			Category:       CategoryVendorPerformance,
			Slug:           "vendor-performance",
			Subject:        "vendor performance",
			ContextHeading: "Key vendors",
			Condition:      "PURCHASE_ORDER_QUANTITY > 0",
			Ranking:        RankBySpend,
			Metrics: []Metric{
				totalVendors,
				{
					Column: "DELIVERY_RATE",
					Expr:   "COALESCE(AVG(CAST(NULLIF(PURCHASING_DELIVERED_QUANTITY, 0) AS FLOAT) / NULLIF(PURCHASE_ORDER_QUANTITY, 0) * 100), 0)",
					Label:  "Delivery Rate", PromptLabel: "Delivery Rate",
					TileFormat: FormatPercent, PromptFormat: FormatPercent,
				},
				{
					Column: "AVG_LATE_DAYS", Expr: "COALESCE(AVG(PURCHASE_DELIVER_LATE_DAYS), 0)",
					Label: "Avg Late Days", PromptLabel: "Average Late Days",
					TileFormat: FormatDecimal, PromptFormat: FormatDecimal,
				},
				{
					Column: "LATE_DELIVERY_PCT",
					Expr:   "COALESCE(CAST(SUM(PURCHASE_LATE_AMOUNT) AS FLOAT) / NULLIF(SUM(PURCHASE_ORDER_AMOUNT), 0) * 100, 0)",
					Label:  "Late Deliveries", PromptLabel: "Late Delivery %",
					TileFormat: FormatPercent, PromptFormat: FormatPercent,
				},
			},
		},
		{
			Category:       CategoryMaterialUsage,
			Slug:           "material-usage",
			Subject:        "material usage",
			ContextHeading: "Key vendors",
			Ranking:        RankBySpend,
			Metrics: []Metric{
				{
					Column: "TOTAL_MATERIALS", Expr: "COUNT(DISTINCT MATERIAL_ID)",
					Label: "Total Materials", PromptLabel: "Total Materials",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
				{
					Column: "TOTAL_QUANTITY", Expr: "COALESCE(SUM(PURCHASE_ORDER_QUANTITY), 0)",
					Label: "Total Quantity", PromptLabel: "Total Quantity",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
				{
					Column: "TOTAL_PLANTS", Expr: "COUNT(DISTINCT PLANT_ID)",
					Label: "Total Plants", PromptLabel: "Total Plants",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
				{
					Column: "AVG_ORDER_QTY", Expr: "COALESCE(AVG(PURCHASE_ORDER_QUANTITY), 0)",
					Label: "Avg Order Qty", PromptLabel: "Average Order Quantity",
					TileFormat: FormatDecimal, PromptFormat: FormatDecimal,
				},
			},
		},
		{
			Category:       CategoryProcessEfficiency,
			Slug:           "process-efficiency",
			Subject:        "process efficiency",
			ContextHeading: "Vendor-specific efficiency rates",
			Focus:          "Focus analysis on vendor efficiency rates, processing times, and late item patterns.",
			Ranking:        RankByEfficiency,
			Metrics: []Metric{
				{
					Column: "AVG_PROCESS_DAYS", Expr: "COALESCE(AVG(PURCHASE_DELIVER_LATE_DAYS), 0)",
					Label: "Avg Process Days", PromptLabel: "Average Process Days",
					TileFormat: FormatDecimal, PromptFormat: FormatDecimal,
				},
				{
					Column: "TOTAL_ORGS", Expr: "COUNT(DISTINCT PURCHASING_ORGANIZATION_ID)",
					Label: "Total Orgs", PromptLabel: "Total Organizations",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
				{
					Column: "LATE_ITEMS", Expr: "COALESCE(SUM(PURCHASE_ITEM_LATE_COUNT), 0)",
					Label: "Late Items", PromptLabel: "Late Items",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
				{
					Column: "TOTAL_ITEMS", Expr: "COALESCE(SUM(PURCHASE_ORDER_ITEM_COUNT), 0)",
					Label: "Total Items", PromptLabel: "Total Items",
					TileFormat: FormatCount, PromptFormat: FormatCount,
				},
			},
		},
	}
)

// Categories lists the analyses in selector order.
func Categories() []Category {
	out := make([]Category, len(profiles))
	for i, p := range profiles {
		out[i] = p.Category
	}
	return out
}

// ProfileFor returns the profile of c.
func ProfileFor(c Category) (Profile, error) {
	for _, p := range profiles {
		if p.Category == c {
			return p, nil
		}
	}
	return Profile{}, ErrUnknownCategory
}

// ParseCategory accepts either the label ("Spend Analysis") or the slug ("spend"), ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, p := range profiles {
		if strings.EqualFold(s, string(p.Category)) || strings.EqualFold(s, p.Slug) {
			return p.Category, nil
		}
	}
	return "", ErrUnknownCategory
}
