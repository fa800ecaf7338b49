package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"assistd/internal/slot"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "assistd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	slotMemUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "assistd",
		Subsystem: "slots",
		Name:      "memory_used_mb",
		Help:      "Estimated memory used by loaded model slots in MB",
	})

	// SlotEventsTotal counts slot lifecycle events by name; the slot
	// manager's event publisher feeds it.
	SlotEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistd",
			Subsystem: "slots",
			Name:      "events_total",
			Help:      "Slot lifecycle events (loads, evictions, unloads, soft budget overflows)",
		},
		[]string{"event"},
	)

	// RequestsByIntent counts processed requests by classified intent.
	RequestsByIntent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assistd",
			Subsystem: "router",
			Name:      "requests_total",
			Help:      "Processed requests by classified intent",
		},
		[]string{"intent", "fallback"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, slotMemUsed, SlotEventsTotal, RequestsByIntent)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := routePatternOrPath(r)
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		statusLabel := strconv.Itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// MetricsPublisher adapts slot lifecycle events onto prometheus counters.
// It satisfies the slot manager's EventPublisher contract.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(ev slot.Event) {
	SlotEventsTotal.WithLabelValues(ev.Name).Inc()
}

// ObserveIntent records one processed request by classified intent.
func ObserveIntent(intent string, fallback bool) {
	RequestsByIntent.WithLabelValues(intent, strconv.FormatBool(fallback)).Inc()
}
