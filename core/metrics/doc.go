// Package metrics exposes Prometheus instrumentation for the inventory engine.
//
// A *Metrics value owns its own registry so several instances (one per test,
// for example) never collide on the default registerer. Every recording
// method is safe to call on a nil *Metrics, which lets engine components
// treat instrumentation as optional.
//
// The registry is served by Handler, mounted at /metrics by the start command.
package metrics
