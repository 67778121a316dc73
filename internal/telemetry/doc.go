// Package telemetry provides OpenTelemetry instrumentation for collegeroi.
//
// Traces and metrics are exported over OTLP (grpc or http/protobuf) to a
// collector. Providers are registered globally so packages can obtain
// instruments with otel.Tracer and otel.Meter under their own
// instrumentation name.
//
//	tel, err := telemetry.New(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  service_name: collegeroi
//
// # Error Handling
//
// Telemetry failures do not crash the server. If an exporter cannot be
// created the instance is marked degraded and falls back to no-op providers.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	tt.Install(t)
//	// exercise code that calls otel.Tracer(...)
//	tt.AssertSpanExists(t, "selection.resolve")
//	tt.AssertCounter(t, "collegeroi.selection.requests", 1)
package telemetry
