// Package logger builds configured slog.Logger instances.
//
// The factory defaults to JSON output at INFO level, matching log
// aggregation expectations in production; development presets switch to
// text output at DEBUG level. Attribute helpers (Error, UserID, Component)
// keep log field names consistent across components.
package logger
