// Package telemetry provides logging, tracing and metrics for boardcfg.
//
// Logging is zerolog behind a small wrapper that adds load, board, phase and
// source fields. Tracing uses OpenTelemetry with an OTLP gRPC, stdout or
// no-op exporter; each configuration load gets a root span and one child
// span per parse phase. Metrics live on a private Prometheus registry and
// can be served over HTTP or written to a node_exporter textfile.
//
// Initialize once per process:
//
//	tel, err := telemetry.NewTelemetry(telemetry.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx := tel.WithContext(context.Background())
//	telemetry.FromContext(ctx).WithBoard("rearm").Info("Board selected")
//
// Code that is handed no telemetry should use Discard, which keeps every
// method safe to call.
package telemetry
