// Package metric provides Prometheus metrics for Rolodex.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: the registry with operation counters and latency
//   - collector.go: a collector reporting index size at scrape time
//
// Rolodex is a command line tool, so metrics are not served over HTTP.
// They are written in the node-exporter textfile format when an engine
// closes, for a textfile collector to pick up.
package metric
