package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type HealthChecker interface {
	Check(ctx context.Context) error
}

// Pinger is satisfied by the warehouse repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WarehouseHealthChecker pings the warehouse session.
type WarehouseHealthChecker struct {
	Warehouse Pinger
}

func (w *WarehouseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return w.Warehouse.Ping(ctx)
}

type healthReport struct {
	Status    string            `json:"status"`
	CheckedAt time.Time         `json:"checked_at"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// runChecks records "ok" or the error text per dependency.
func runChecks(ctx context.Context, checkers map[string]HealthChecker) (healthReport, bool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rep := healthReport{CheckedAt: time.Now().UTC(), Checks: make(map[string]string, len(checkers))}
	healthy := true
	for name, c := range checkers {
		if err := c.Check(ctx); err != nil {
			healthy = false
			rep.Checks[name] = err.Error()
			continue
		}
		rep.Checks[name] = "ok"
	}
	return rep, healthy
}

func writeReport(w http.ResponseWriter, rep healthReport, healthy bool) {
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rep)
}

// HealthHandler reports every dependency and answers 503 when one is down.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, healthy := runChecks(r.Context(), checkers)
		rep.Status = "healthy"
		if !healthy {
			rep.Status = "unhealthy"
		}
		writeReport(w, rep, healthy)
	}
}

// ReadinessHandler answers 503 until the warehouse responds, so a load
// balancer holds traffic back from an instance that cannot build tiles.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, healthy := runChecks(r.Context(), checkers)
		rep.Status = "ready"
		if !healthy {
			rep.Status = "not ready"
		}
		rep.Checks = nil
		writeReport(w, rep, healthy)
	}
}

func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
