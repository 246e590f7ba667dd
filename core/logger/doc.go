// Package logger builds the zap loggers used across the service.
//
// New parses the level with zap.ParseAtomicLevel. The debug level selects the
// development preset (ISO8601 timestamps, caller info) and any other level the
// production one. Format is json (default) or console.
//
// Component scopes a logger to a subsystem ("inventory", "transfer") and
// WithRayID attaches the request's ray id inside Fiber handlers:
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithRayID(log, c)
//	l.Warn("withdraw partial", zap.Int("moved", moved))
package logger
