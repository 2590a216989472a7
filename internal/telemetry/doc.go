// Package telemetry instruments suite loading with OpenTelemetry. Init sets
// up OTLP gRPC export when enabled; Instruments turns each load into a
// suitekit.load span plus load count and duration metrics.
package telemetry
