package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
	"github.com/bryanwahyu/supplychain-insight/internal/metrics"
)

// Repository runs the fixed statements of Builder against the warehouse.
type Repository struct {
	db  *sql.DB
	b   Builder
	log *zap.Logger
}

func NewRepository(db *sql.DB, b Builder, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{db: db, b: b, log: log}
}

// Metrics returns the single aggregate row for category. NULL aggregates and
// an empty result both read as zero.
func (r *Repository) Metrics(ctx context.Context, category procurement.Category, vendor string) (*procurement.MetricsResult, error) {
	p, err := procurement.ProfileFor(category)
	if err != nil {
		return nil, err
	}
	q, args := r.b.Metrics(p, vendor)

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.observe("metrics", start, err)
		return nil, fmt.Errorf("%w: metrics %s: %w", procurement.ErrWarehouse, category, err)
	}
	defer rows.Close()

	res := &procurement.MetricsResult{Category: category, Values: make(map[string]float64, len(p.Metrics))}
	for _, col := range p.Columns() {
		res.Values[col] = 0
	}

	if rows.Next() {
		vals := make([]sql.NullFloat64, len(p.Metrics))
		dest := make([]any, len(vals))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			r.observe("metrics", start, err)
			return nil, fmt.Errorf("%w: scan metrics %s: %w", procurement.ErrWarehouse, category, err)
		}
		for i, col := range p.Columns() {
			if vals[i].Valid {
				res.Values[col] = vals[i].Float64
			}
		}
	}
	err = rows.Err()
	r.observe("metrics", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics %s: %w", procurement.ErrWarehouse, category, err)
	}

	r.log.Debug("metrics fetched",
		zap.String("category", string(category)),
		zap.Bool("vendor_filter", vendor != ""),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

// TopVendors returns the leaderboard of kind, at most procurement.TopVendorLimit rows.
func (r *Repository) TopVendors(ctx context.Context, kind procurement.RankingKind) (*procurement.Leaderboard, error) {
	label := "ranking_" + string(kind)
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, r.b.Ranking(kind))
	if err != nil {
		r.observe(label, start, err)
		return nil, fmt.Errorf("%w: %s ranking: %w", procurement.ErrWarehouse, kind, err)
	}
	defer rows.Close()

	board := &procurement.Leaderboard{Kind: kind}
	for rows.Next() {
		var (
			name string
			e    procurement.VendorRanking
		)
		if kind == procurement.RankByEfficiency {
			var days, late, total, rate sql.NullFloat64
			if err := rows.Scan(&name, &days, &late, &total, &rate); err != nil {
				r.observe(label, start, err)
				return nil, fmt.Errorf("%w: scan ranking: %w", procurement.ErrWarehouse, err)
			}
			e = procurement.VendorRanking{
				Name:           name,
				AvgProcessDays: days.Float64,
				LateItems:      late.Float64,
				TotalItems:     total.Float64,
				Efficiency:     rate.Float64,
			}
		} else {
			var spend, share sql.NullFloat64
			if err := rows.Scan(&name, &spend, &share); err != nil {
				r.observe(label, start, err)
				return nil, fmt.Errorf("%w: scan ranking: %w", procurement.ErrWarehouse, err)
			}
			e = procurement.VendorRanking{Name: name, TotalSpend: spend.Float64, SpendShare: share.Float64}
		}
		board.Entries = append(board.Entries, e)
	}
	err = rows.Err()
	r.observe(label, start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s ranking: %w", procurement.ErrWarehouse, kind, err)
	}
	return board, nil
}

// Vendors lists the names for the vendor selector.
func (r *Repository) Vendors(ctx context.Context) ([]string, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, r.b.VendorNames())
	if err != nil {
		r.observe("vendors", start, err)
		return nil, fmt.Errorf("%w: vendors: %w", procurement.ErrWarehouse, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			r.observe("vendors", start, err)
			return nil, fmt.Errorf("%w: scan vendor: %w", procurement.ErrWarehouse, err)
		}
		if name.Valid && name.String != "" {
			out = append(out, name.String)
		}
	}
	err = rows.Err()
	r.observe("vendors", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: vendors: %w", procurement.ErrWarehouse, err)
	}
	return out, nil
}

// Ping checks the session for the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) observe(query string, start time.Time, err error) {
	metrics.WarehouseQueryDuration.WithLabelValues(query, metrics.Status(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		r.log.Warn("warehouse query failed", zap.String("query", query), zap.Error(err))
	}
}
