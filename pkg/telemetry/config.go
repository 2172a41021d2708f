package telemetry

import (
	"fmt"
	"time"
)

// Config contains the telemetry configuration for boardcfg.
type Config struct {
	// ServiceName identifies the process in traces.
	ServiceName string

	// ServiceVersion is the build version.
	ServiceVersion string

	// Logging contains logging configuration.
	Logging LoggingConfig

	// Tracing contains tracing configuration.
	Tracing TracingConfig

	// Metrics contains metrics configuration.
	Metrics MetricsConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is console or json.
	Format string

	// Output is stdout, stderr or a file path.
	Output string

	// EnableCaller adds file:line caller information to logs.
	EnableCaller bool

	// EnableSampling rate-limits repeated messages, which matters when a
	// large board.txt produces a warning on every line.
	EnableSampling bool

	// SamplingBurst is the number of messages let through per period.
	SamplingBurst uint32

	// SamplingPeriod is the sampling window.
	SamplingPeriod time.Duration

	// TimeFormat is unix, unixms or rfc3339.
	TimeFormat string
}

// TracingConfig configures tracing of configuration loads.
type TracingConfig struct {
	// Exporter is otlp, stdout or none.
	Exporter string

	// Endpoint is the OTLP gRPC endpoint, e.g. "localhost:4317".
	Endpoint string

	// SamplingRate is the trace sampling rate (0.0 to 1.0).
	SamplingRate float64

	// ExportTimeout bounds span export.
	ExportTimeout time.Duration

	// Insecure disables TLS for the OTLP connection.
	Insecure bool
}

// MetricsConfig configures load metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded.
	Enabled bool

	// Namespace is the metric name prefix.
	Namespace string

	// TextfilePath, when set, receives the registry in Prometheus text
	// format after each command, for node_exporter's textfile collector.
	TextfilePath string

	// DurationBuckets are the load duration buckets in seconds.
	DurationBuckets []float64
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "boardcfg",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "console",
			Output:         "stderr",
			SamplingBurst:  50,
			SamplingPeriod: time.Second,
			TimeFormat:     "rfc3339",
		},
		Tracing: TracingConfig{
			Exporter:      "none",
			SamplingRate:  1.0,
			ExportTimeout: 10 * time.Second,
			Insecure:      true,
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			Namespace:       "boardcfg",
			DurationBuckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	}
}

// DevelopmentConfig logs at debug level and prints spans to stdout.
func DevelopmentConfig() *Config {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.EnableCaller = true
	cfg.Tracing.Exporter = "stdout"
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "disabled": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", c.Logging.Format)
	}

	validExporters := map[string]bool{"otlp": true, "stdout": true, "none": true, "": true}
	if !validExporters[c.Tracing.Exporter] {
		return fmt.Errorf("invalid trace exporter: %s", c.Tracing.Exporter)
	}
	if c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
		return fmt.Errorf("trace endpoint is required for the otlp exporter")
	}

	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0 and 1, got: %f", c.Tracing.SamplingRate)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics namespace is required when metrics are enabled")
	}

	return nil
}
