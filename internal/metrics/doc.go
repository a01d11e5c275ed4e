// Package metrics records render and preview metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	conv := document.NewConverter(opts, document.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics are enabled in configuration, a PrometheusRecorder backed by a
// dedicated registry is injected instead and HTTPHandler exposes it.
package metrics
