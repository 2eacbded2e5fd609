package procurement

import "context"

// Warehouse port (read-only access to the purchase-order schema)
type Warehouse interface {
	Metrics(ctx context.Context, category Category, vendor string) (*MetricsResult, error)
	TopVendors(ctx context.Context, kind RankingKind) (*Leaderboard, error)
	Vendors(ctx context.Context) ([]string, error)
}

// ReportArchive port (optional copy of each narrative report)
type ReportArchive interface {
	Store(ctx context.Context, entry HistoryEntry, report []byte) (string, error)
}
