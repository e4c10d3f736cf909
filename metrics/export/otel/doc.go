// Package otel publishes mediaguard counters through OpenTelemetry
// observable instruments.
//
// [NewExporter] creates one Int64ObservableCounter per counter and one
// Int64ObservableGauge per latency bucket, all fed by a single callback that
// reads the Engine snapshot on each collection. Callers own the Meter.
package otel
