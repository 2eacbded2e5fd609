package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/application"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/prompt"
	"github.com/bryanwahyu/supplychain-insight/internal/metrics"
)

// ErrAnalysisInProgress is returned when a session asks for a second analysis
// while its first one is still waiting on the completion service.
var ErrAnalysisInProgress = errors.New("an analysis is already running for this session")

// Service implements the dashboard use-cases. It holds no per-user state;
// history lives in the Session passed to Analyze.
type Service struct {
	Warehouse procurement.Warehouse
	Completer ai.Completer
	Archive   procurement.ReportArchive // optional
	Clock     application.Clock
	Log       *zap.Logger
}

// Options feeds the three selectors.
type Options struct {
	Categories []procurement.Category `json:"categories" yaml:"categories"`
	Models     []string               `json:"models" yaml:"models"`
	Vendors    []string               `json:"vendors" yaml:"vendors"`
}

// Dashboard is the tile view of one selection.
type Dashboard struct {
	Category procurement.Category `json:"category" yaml:"category"`
	Vendor   string               `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Tiles    []procurement.Tile   `json:"tiles" yaml:"tiles"`
}

// Analysis is the outcome of a successful Analyze.
type Analysis struct {
	Dashboard `yaml:",inline"`

	Model       string                   `json:"model" yaml:"model"`
	Prompt      string                   `json:"prompt" yaml:"prompt"`
	Narrative   string                   `json:"narrative" yaml:"narrative"`
	Leaderboard *procurement.Leaderboard `json:"leaderboard,omitempty" yaml:"leaderboard,omitempty"`
	Entry       procurement.HistoryEntry `json:"entry" yaml:"entry"`
	ReportURL   string                   `json:"report_url,omitempty" yaml:"report_url,omitempty"`
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) Options(ctx context.Context) (*Options, error) {
	vendors, err := s.Warehouse.Vendors(ctx)
	if err != nil {
		return nil, err
	}
	return &Options{
		Categories: procurement.Categories(),
		Models:     append([]string(nil), ai.Models...),
		Vendors:    vendors,
	}, nil
}

// Metrics fetches the aggregate row for req and renders its tiles.
func (s *Service) Metrics(ctx context.Context, req procurement.AnalysisRequest) (*Dashboard, error) {
	p, err := procurement.ProfileFor(req.Category)
	if err != nil {
		return nil, err
	}
	m, err := s.Warehouse.Metrics(ctx, req.Category, req.Vendor)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Category: req.Category, Vendor: req.Vendor, Tiles: procurement.Tiles(p, m)}, nil
}

// Analyze runs the fetch, compose and complete flow for req. The session's
// history grows only when the completion succeeds.
func (s *Service) Analyze(ctx context.Context, sess *Session, req procurement.AnalysisRequest) (*Analysis, error) {
	p, err := procurement.ProfileFor(req.Category)
	if err != nil {
		return nil, err
	}
	if req.Model == "" {
		req.Model = ai.DefaultModel
	}
	if !sess.begin() {
		return nil, ErrAnalysisInProgress
	}
	defer sess.end()

	log := s.logger().With(
		zap.String("session", sess.ID),
		zap.String("category", string(req.Category)),
		zap.String("model", req.Model),
	)

	a, err := s.analyze(ctx, p, req)
	metrics.AnalysesTotal.WithLabelValues(p.Slug, metrics.Status(err)).Inc()
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return nil, err
	}

	a.Entry = procurement.HistoryEntry{
		ID:        uuid.NewString(),
		Category:  req.Category,
		Vendor:    req.Vendor,
		Model:     req.Model,
		Narrative: a.Narrative,
		CreatedAt: s.now(),
	}
	sess.append(a.Entry)
	log.Info("analysis completed", zap.String("entry", a.Entry.ID), zap.Int("narrative_len", len(a.Narrative)))

	if s.Archive != nil {
		url, err := s.Archive.Store(ctx, a.Entry, Report(a))
		if err != nil {
			log.Warn("report archive failed", zap.Error(err))
		} else {
			a.ReportURL = url
		}
	}
	return a, nil
}

func (s *Service) analyze(ctx context.Context, p procurement.Profile, req procurement.AnalysisRequest) (*Analysis, error) {
	m, err := s.Warehouse.Metrics(ctx, req.Category, req.Vendor)
	if err != nil {
		return nil, err
	}

	// The leaderboard compares vendors, so it is skipped once scoped to one.
	var board *procurement.Leaderboard
	if req.Vendor == "" {
		board, err = s.Warehouse.TopVendors(ctx, p.Ranking)
		if err != nil {
			return nil, err
		}
	}

	text := prompt.Compose(p, req.Vendor, m, board)
	narrative, err := s.Completer.Complete(ctx, req.Model, text)
	metrics.CompletionRequests.WithLabelValues(req.Model, metrics.Status(err)).Inc()
	if err != nil {
		if !errors.Is(err, ai.ErrCompletion) {
			err = fmt.Errorf("%w: %w", ai.ErrCompletion, err)
		}
		return nil, err
	}

	return &Analysis{
		Dashboard:   Dashboard{Category: req.Category, Vendor: req.Vendor, Tiles: procurement.Tiles(p, m)},
		Model:       req.Model,
		Prompt:      text,
		Narrative:   narrative,
		Leaderboard: board,
	}, nil
}

// History returns the session's past analyses, oldest first.
func (s *Service) History(sess *Session) []procurement.HistoryEntry {
	return sess.History()
}
