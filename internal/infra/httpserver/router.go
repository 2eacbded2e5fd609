package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	domai "github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
	"github.com/bryanwahyu/supplychain-insight/internal/metrics"
	"github.com/bryanwahyu/supplychain-insight/internal/middleware"
)

// Deps are the router's collaborators besides the dashboard service.
type Deps struct {
	Sessions       *dashboard.Sessions
	SessionTTL     time.Duration
	Limiter        *middleware.RateLimiter
	Health         map[string]middleware.HealthChecker
	AllowedOrigins []string
	APIKeys        map[string]string // gates /api when non-empty, client name to key
	Log            *zap.Logger
}

type Router struct {
	svc *dashboard.Service
	log *zap.Logger
}

func NewRouter(svc *dashboard.Service, deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Sessions == nil {
		deps.Sessions = dashboard.NewSessions(0, deps.SessionTTL)
	}
	if deps.Limiter == nil {
		deps.Limiter = middleware.NewRateLimiter(5, 1)
	}
	r := &Router{svc: svc, log: log}
	limit := middleware.RateLimit(deps.Limiter, middleware.SessionKey)

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(log), middleware.Metrics)

	mux.Get("/health", middleware.HealthHandler(deps.Health))
	mux.Get("/ready", middleware.ReadinessHandler(deps.Health))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Handle("/metrics", metrics.Handler())

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.Session(deps.Sessions, deps.SessionTTL))

		rt.Get("/", r.handlePage)
		rt.With(limit).Post("/analyze", r.handlePageAnalyze)

		rt.Route("/api", func(api chi.Router) {
			if len(deps.AllowedOrigins) > 0 {
				api.Use(cors.Handler(cors.Options{
					AllowedOrigins:   deps.AllowedOrigins,
					AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
					AllowedHeaders:   []string{"Content-Type", "Authorization"},
					AllowCredentials: true,
					MaxAge:           300,
				}))
			}
			api.Use(middleware.APIKeyAuth(deps.APIKeys))

			api.Get("/options", r.wrap(r.handleOptions))
			api.Get("/metrics", r.wrap(r.handleMetrics))
			api.With(limit).Post("/analyze", r.wrap(r.handleAnalyze))
			api.Get("/history", r.wrap(r.handleHistory))
			api.Delete("/session", r.wrap(func(w http.ResponseWriter, req *http.Request) error {
				if s := middleware.SessionFrom(req.Context()); s != nil {
					deps.Sessions.End(s.ID)
				}
				w.WriteHeader(http.StatusNoContent)
				return nil
			}))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= 500 {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
	}
}

// statusFor maps the error kinds to HTTP status codes.
func statusFor(err error) int {
	var verr *middleware.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, procurement.ErrUnknownCategory), errors.Is(err, domai.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrAnalysisInProgress):
		return http.StatusConflict
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domai.ErrCompletion), errors.Is(err, procurement.ErrWarehouse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/options
func (r *Router) handleOptions(w http.ResponseWriter, req *http.Request) error {
	opts, err := r.svc.Options(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, opts)
	return nil
}

// GET /api/metrics?category=&vendor=
func (r *Router) handleMetrics(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	ar, err := middleware.ValidateRequest(q.Get("category"), q.Get("vendor"), "")
	if err != nil {
		return err
	}
	d, err := r.svc.Metrics(req.Context(), ar)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, d)
	return nil
}

// POST /api/analyze
// Body: {"category": "...", "vendor": "...", "model": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Category string `json:"category"`
		Vendor   string `json:"vendor"`
		Model    string `json:"model"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<16)).Decode(&body); err != nil {
		return &middleware.ValidationError{Field: "body", Msg: err.Error()}
	}
	ar, err := middleware.ValidateRequest(body.Category, body.Vendor, body.Model)
	if err != nil {
		return err
	}

	a, err := r.svc.Analyze(req.Context(), middleware.SessionFrom(req.Context()), ar)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, a)
	return nil
}

// GET /api/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, r.svc.History(middleware.SessionFrom(req.Context())))
	return nil
}
