// Package prometheus exposes mediaguard counters and the validate latency
// histogram as a client_golang [prometheus.Collector].
//
// Register the [Exporter] with your own registry, or mount [Exporter.Handler]
// which serves it from a private one. Counter names are mediaguard_*_total;
// the histogram is mediaguard_validate_latency_seconds.
package prometheus
