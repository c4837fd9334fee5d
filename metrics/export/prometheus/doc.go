// Package prometheus renders the Engine's counters and latency histogram in
// Prometheus text exposition format, with no dependency on the Prometheus
// client library.
package prometheus
