package procurement

import (
	"errors"
	"time"
)

// ErrWarehouse wraps any failure of a warehouse query.
var ErrWarehouse = errors.New("warehouse query failed")

// TopVendorLimit is the leaderboard length.
const TopVendorLimit = 5

// AnalysisRequest is one user selection. An empty Vendor means all vendors.
type AnalysisRequest struct {
	Category Category `json:"category" yaml:"category"`
	Vendor   string   `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Model    string   `json:"model,omitempty" yaml:"model,omitempty"`
}

// MetricsResult is the single aggregate row of a category's metrics query.
type MetricsResult struct {
	Category Category           `json:"category" yaml:"category"`
	Values   map[string]float64 `json:"values" yaml:"values"`
}

// Value returns the named column, 0 when absent.
func (m *MetricsResult) Value(column string) float64 {
	if m == nil {
		return 0
	}
	return m.Values[column]
}

// VendorRanking is one leaderboard row. Spend rankings fill TotalSpend and
// SpendShare; efficiency rankings fill the item counters.
type VendorRanking struct {
	Name           string  `json:"name" yaml:"name"`
	TotalSpend     float64 `json:"total_spend,omitempty" yaml:"total_spend,omitempty"`
	SpendShare     float64 `json:"spend_share,omitempty" yaml:"spend_share,omitempty"`
	AvgProcessDays float64 `json:"avg_process_days,omitempty" yaml:"avg_process_days,omitempty"`
	LateItems      float64 `json:"late_items,omitempty" yaml:"late_items,omitempty"`
	TotalItems     float64 `json:"total_items,omitempty" yaml:"total_items,omitempty"`
	Efficiency     float64 `json:"efficiency,omitempty" yaml:"efficiency,omitempty"`
}

// Leaderboard is an ordered top-vendor list.
type Leaderboard struct {
	Kind    RankingKind     `json:"kind" yaml:"kind"`
	Entries []VendorRanking `json:"entries" yaml:"entries"`
}

// Tile is a labeled dashboard figure.
type Tile struct {
	Column  string  `json:"column" yaml:"column"`
	Label   string  `json:"label" yaml:"label"`
	Value   float64 `json:"value" yaml:"value"`
	Display string  `json:"display" yaml:"display"`
}

// Tiles renders m with the tile formats of p.
func Tiles(p Profile, m *MetricsResult) []Tile {
	tiles := make([]Tile, 0, len(p.Metrics))
	for _, metric := range p.Metrics {
		v := m.Value(metric.Column)
		tiles = append(tiles, Tile{
			Column:  metric.Column,
			Label:   metric.Label,
			Value:   v,
			Display: metric.TileFormat.Apply(v),
		})
	}
	return tiles
}

// HistoryEntry records one successful analysis of a session.
type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Category  Category  `json:"category" yaml:"category"`
	Vendor    string    `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Model     string    `json:"model" yaml:"model"`
	Narrative string    `json:"narrative" yaml:"narrative"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
