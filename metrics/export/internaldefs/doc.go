// Package internaldefs holds the shared metric definitions used by the
// Prometheus and OTel exporters. It is internal to metrics/export and not a
// stable API.
package internaldefs
