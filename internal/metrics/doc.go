// Package metrics instruments program gateways with Prometheus collectors
// and serves them over HTTP.
//
// # Overview
//
// Instrument wraps any program.Gateway. Each call is timed and counted by
// operation and outcome, then passed through unchanged, so the UI and the
// CLI never know the decorator is there.
//
// # Collectors
//
//	cadre_gateway_requests_total{op, outcome}   counter
//	cadre_gateway_latency_ms{op}                histogram, 5ms to 10s buckets
//	cadre_programs_loaded                       gauge
//
// op is get_all or create. outcome is one of:
//
//   - ok: the call succeeded
//   - invalid: the call returned a *program.ValidationError
//   - error: anything else (transport, decoding, database)
//
// cadre_programs_loaded holds the length of the last successful list.
//
// # Registration
//
// New registers the collectors with the Registerer it is given. The app
// uses a private registry per process, which keeps tests isolated and
// keeps Go runtime collectors out of the output.
//
// # Serving
//
// Serve exposes /metrics on the metrics_addr config setting until its
// context is cancelled, then shuts the server down with a two second grace
// period. When metrics_addr is empty nothing listens.
package metrics
