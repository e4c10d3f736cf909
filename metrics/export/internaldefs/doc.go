// Package internaldefs holds the metric names, help strings and histogram
// bounds shared by the Prometheus and OTel exporters, so both expose the
// same series.
//
// It reads mediaguard metric ids and bounds and performs no I/O.
package internaldefs
