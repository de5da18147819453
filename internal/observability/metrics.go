package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the service-level Prometheus collectors. Each service binary
// owns one instance backed by its own registry, so tests can build as many as
// they need without collisions.
type Metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	latency          prometheus.Histogram
	upstreamFailures *prometheus.CounterVec
}

// New builds the collectors for one service.
func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "plataforma_http_requests_total",
		Help:        "HTTP requests handled, by path and status.",
		ConstLabels: prometheus.Labels{"service": service},
	}, []string{"path", "status"})

	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "plataforma_http_request_seconds",
		Help:        "HTTP request handling latency.",
		ConstLabels: prometheus.Labels{"service": service},
		Buckets:     prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	upstreamFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "plataforma_upstream_failures_total",
		Help:        "Failed upstream calls, by target service.",
		ConstLabels: prometheus.Labels{"service": service},
	}, []string{"target"})

	registry.MustRegister(requests, latency, upstreamFailures)

	return &Metrics{
		registry:         registry,
		requests:         requests,
		latency:          latency,
		upstreamFailures: upstreamFailures,
	}
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.latency.Observe(elapsed.Seconds())
}

// UpstreamFailure records one failed call to the named upstream.
func (m *Metrics) UpstreamFailure(target string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(target).Inc()
}

// Serve exposes the registry on its own listener and returns the server for
// shutdown. The scrape endpoint stays off the service port.
func (m *Metrics) Serve(addr string, logger *zap.Logger) *http.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("metrics listener started", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listener crashed", zap.Error(err))
		}
	}()
	return server
}
