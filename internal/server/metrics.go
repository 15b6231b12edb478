// Defines the Prometheus metrics exported at /metrics.

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/maruel/admindash/internal/server/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "admindash"

const (
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelCode   = "code"
	LabelKind   = "kind"
	LabelResult = "result"
)

// metrics holds the collectors of one server. Each server owns its registry.
type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
}

func newMetrics(svc *handlers.Services) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	m := &metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
				Namespace: Namespace,
			},
			[]string{LabelMethod, LabelRoute, LabelCode},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Namespace: Namespace,
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelMethod, LabelRoute},
		),
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:      "login_attempts_total",
				Help:      "Login attempts by result",
				Namespace: Namespace,
			},
			[]string{LabelResult},
		),
	}
	for kind, size := range map[string]func() int{
		"users":    svc.User.Len,
		"products": svc.Product.Len,
		"accounts": svc.Account.Len,
	} {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "records",
				Help:        "Number of stored records by kind",
				Namespace:   Namespace,
				ConstLabels: prometheus.Labels{LabelKind: kind},
			},
			func() float64 { return float64(size()) },
		)
	}
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:      "active_sessions",
			Help:      "Sessions that are neither expired nor revoked",
			Namespace: Namespace,
		},
		func() float64 { return float64(svc.Session.CountActive()) },
	)
	return m
}

// handler serves the registry in the Prometheus exposition format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// loginAttempt counts a login by result ("success" or "failure").
func (m *metrics) loginAttempt(result string) {
	m.loginAttempts.WithLabelValues(result).Inc()
}

// instrument records request counts and latency per route pattern. It must
// wrap the ServeMux directly so that the matched pattern is visible once the
// request was served.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(statusCode int) {
	if !s.wroteHeader {
		s.status = statusCode
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(statusCode)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
