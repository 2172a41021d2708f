package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes used as the status label.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusFailed   = "failed"
)

// Metrics provides Prometheus metrics for configuration loads.
type Metrics struct {
	config MetricsConfig

	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec

	lines   *prometheus.CounterVec
	applied *prometheus.CounterVec
	issues  *prometheus.CounterVec

	boardInfo *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector on its own registry. A disabled
// config yields a Metrics whose methods do nothing.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Total number of board configuration loads by outcome",
			},
			[]string{"status"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Duration of a two-phase configuration load in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),
		lines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_total",
				Help:      "Lines read from board.txt by classification",
			},
			[]string{"kind"},
		),
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_applied_total",
				Help:      "Configuration lines that updated a setting",
			},
			[]string{"phase"},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issues_total",
				Help:      "Rejected or ignored configuration lines by class and reason",
			},
			[]string{"class", "reason"},
		),
		boardInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "board_info",
				Help:      "Board selected by the last load (always 1)",
			},
			[]string{"board"},
		),
	}

	registry.MustRegister(
		m.loads,
		m.loadDuration,
		m.lines,
		m.applied,
		m.issues,
		m.boardInfo,
	)

	return m, nil
}

// Registry returns the underlying registry, or nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLoad records a finished load.
func (m *Metrics) RecordLoad(status string, duration time.Duration) {
	if m.loads == nil {
		return
	}
	m.loads.WithLabelValues(status).Inc()
	m.loadDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// AddLines adds n lines of the given kind (empty, comment, applied, unknown,
// truncated).
func (m *Metrics) AddLines(kind string, n int) {
	if m.lines == nil || n <= 0 {
		return
	}
	m.lines.WithLabelValues(kind).Add(float64(n))
}

// AddApplied adds n applied entries for a bootstrap phase.
func (m *Metrics) AddApplied(phase string, n int) {
	if m.applied == nil || n <= 0 {
		return
	}
	m.applied.WithLabelValues(phase).Add(float64(n))
}

// RecordIssue counts one rejected or ignored line.
func (m *Metrics) RecordIssue(class, reason string) {
	if m.issues == nil {
		return
	}
	m.issues.WithLabelValues(class, reason).Inc()
}

// SetBoard marks board as the selected board.
func (m *Metrics) SetBoard(board string) {
	if m.boardInfo == nil {
		return
	}
	m.boardInfo.Reset()
	m.boardInfo.WithLabelValues(board).Set(1)
}

// Timer measures an operation.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// WriteTextfile writes the registry to path in the text exposition format.
// An empty path uses the configured TextfilePath; if both are empty nothing
// is written.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		path = m.config.TextfilePath
	}
	if m.registry == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
