// Package metrics exposes Prometheus collectors for workspace operations and the report
// API. CLI commands record their outcome and may dump the registry to a textfile; the
// report server serves it at /metrics.
package metrics
