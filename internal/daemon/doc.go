// Package daemon implements serve mode.
//
// The daemon indexes the configured note source on start, then keeps the
// store current from two triggers: an fsnotify watch of the notes directory
// (debounced, incremental) and a gocron job running a full reindex. It also
// serves the HTTP API:
//
//	POST /parse        PARSE_NOTES request, JSON result array
//	POST /format       JSON document, Subtext source
//	GET  /notes/{id}   stored parsed note
//	GET  /healthz      health report
//	GET  /metrics      Prometheus metrics, when enabled
//
// When NATS is enabled the parse worker runs alongside.
package daemon
