// Package otel bridges the Engine's metrics into OpenTelemetry observable
// instruments registered on a caller-supplied meter.
package otel
