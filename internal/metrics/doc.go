// Package metrics reads worker telemetry. The fetcher scrapes one
// instance's Prometheus endpoint for the aggregate executions counter that
// decides when the instance is done.
package metrics
