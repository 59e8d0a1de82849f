package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics set.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "tether").
	Namespace string

	// Subsystem is the metrics subsystem (default: "runtime").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the metrics set.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "tether",
		Subsystem: "runtime",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is the Prometheus metrics set for one Runtime. Attach it
// with WithMetrics. Create at most one per registry: the collectors
// register at construction.
type Metrics struct {
	rendersTotal        prometheus.Counter
	renderDuration      prometheus.Histogram
	renderRequests      prometheus.Counter
	slotOrderViolations prometheus.Counter
	reducerErrors       prometheus.Counter
	depsMismatches      prometheus.Counter
	effectRuns          *prometheus.CounterVec
	effectErrors        *prometheus.CounterVec
	activeInstances     prometheus.Gauge
}

// NewMetrics creates and registers the metrics set.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "renders_total",
			Help:        "Completed render sessions.",
			ConstLabels: cfg.ConstLabels,
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render session duration in seconds.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		renderRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "render_requests_total",
			Help:        "Re-render requests issued by state writes and dispatches.",
			ConstLabels: cfg.ConstLabels,
		}),
		slotOrderViolations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "slot_order_violations_total",
			Help:        "Renders aborted because the slot call pattern changed.",
			ConstLabels: cfg.ConstLabels,
		}),
		reducerErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "reducer_errors_total",
			Help:        "Reducer transitions that panicked.",
			ConstLabels: cfg.ConstLabels,
		}),
		depsMismatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "deps_length_mismatches_total",
			Help:        "Dependency lists whose length changed between renders.",
			ConstLabels: cfg.ConstLabels,
		}),
		effectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Effect executions by phase.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"phase"}),
		effectErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effect_errors_total",
			Help:        "Effect failures by stage (run or cleanup).",
			ConstLabels: cfg.ConstLabels,
		}, []string{"stage"}),
		activeInstances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_instances",
			Help:        "Currently mounted instances.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
