package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplychain_http_requests_total",
			Help: "HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supplychain_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "supplychain_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	WarehouseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supplychain_warehouse_query_duration_seconds",
			Help:    "Warehouse query duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"query", "status"},
	)

	CompletionRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplychain_completion_requests_total",
			Help: "Completion calls by model and outcome",
		},
		[]string{"model", "status"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplychain_analyses_total",
			Help: "Narrative analyses by category and outcome",
		},
		[]string{"category", "status"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests)
		prometheus.MustRegister(HTTPDuration)
		prometheus.MustRegister(HTTPInFlight)
		prometheus.MustRegister(WarehouseQueryDuration)
		prometheus.MustRegister(CompletionRequests)
		prometheus.MustRegister(AnalysesTotal)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Status maps an error to the status label.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
