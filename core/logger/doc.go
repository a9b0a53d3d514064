// Package logger builds the zap logger shared by the CLI and the HTTP server.
//
// Level selects zap's development preset for debug and the production preset
// otherwise. Format is json or console; any other value is rejected, as is an
// unknown level. A non-empty Service is stamped on every entry.
//
// Inside a handler, WithRayID adds the ray id assigned by the rayid middleware
// so that every line logged for one relation request can be grouped:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Relation sync finished with failures", zap.Int("failed", n))
package logger
