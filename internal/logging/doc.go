// Package logging provides structured logging for nodeedit.
//
// This package wraps a zap logger with convenience functions. Logging is
// silent unless NODEEDIT_LOG_LEVEL is set, since the terminal UI owns the
// screen. When enabled, entries are written in console format to a rotating
// file (lumberjack), by default nodeedit.log in the config directory.
//
// # Log Levels
//
//   - Debug: every executed query, cache hits
//   - Info: submissions, profile changes
//   - Warn: failed queries, discarded suggestion fetches
//   - Error: failed submissions
//
// # Structured Logging
//
//	logging.Info("Records loaded",
//	    zap.String("label", "Person"),
//	    zap.Int("count", 42),
//	)
//
// # Specialized Logging
//
//	logging.LogQuery("suggestions", cypher, params, len(rows), elapsed, err)
//	logging.LogSubmission(sub.ID, sub.ElementID, "started", len(sub.Props), nil)
//
// # Configuration
//
//	if err := logging.InitializeFromEnv(defaultPath); err != nil {
//	    return err
//	}
//	defer logging.Sync()
package logging
