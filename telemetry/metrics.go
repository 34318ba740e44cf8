// Package telemetry provides Prometheus metrics, tracing setup, and
// correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *prometheus.Registry

	// Counters
	BatchesTotal   prometheus.Counter
	BatchFailures  prometheus.Counter
	TokenRefreshes prometheus.Counter

	// Gauges
	RosterSizeGauge   prometheus.Gauge
	LiveChannelsGauge prometheus.Gauge

	// Histograms (seconds)
	RunDuration prometheus.Observer
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		factory := promauto.With(registry)
		BatchesTotal = factory.NewCounter(prometheus.CounterOpts{Name: "streamwatch_batches_total", Help: "Number of Helix streams query batches issued"})
		BatchFailures = factory.NewCounter(prometheus.CounterOpts{Name: "streamwatch_batch_failures_total", Help: "Number of query batches that contributed no records due to errors"})
		TokenRefreshes = factory.NewCounter(prometheus.CounterOpts{Name: "streamwatch_token_refreshes_total", Help: "Number of client-credentials token exchanges performed"})
		RosterSizeGauge = factory.NewGauge(prometheus.GaugeOpts{Name: "streamwatch_roster_size", Help: "Number of eligible channels loaded from the roster"})
		LiveChannelsGauge = factory.NewGauge(prometheus.GaugeOpts{Name: "streamwatch_live_channels", Help: "Number of channels reported live in the last run"})
		RunDuration = factory.NewHistogram(prometheus.HistogramOpts{Name: "streamwatch_run_duration_seconds", Help: "End-to-end run duration seconds", Buckets: prometheus.DefBuckets})
	})
}

// WriteTextfile dumps the registry in the node_exporter textfile collector
// format. A one-pass job has no scrape endpoint, so this is how run metrics
// leave the process. No-op when path is empty or Init was never called.
func WriteTextfile(path string) error {
	if path == "" || registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, registry)
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
