// Package metrics provides the observability hooks for parsing and indexing.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so nothing needs a nil check:
//
//	d := batch.NewDispatcher(batch.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The daemon serves the registry over HTTP with HTTPHandler.
package metrics
