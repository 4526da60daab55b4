// Package logger provides the structured logging interface used across
// jirarecon.
//
// It wraps zerolog. Console output goes to stderr with short coloured level
// tags so that diagnostics never interleave with the user table on stdout.
// An optional log file receives the same events as JSON.
//
//	err := logger.Initialize(&cfg.Logging, logger.Options{NoColor: cfg.UI.NoColor})
//	log := logger.GetLogger().WithField("run_id", runID)
//	log.InfoWithFields("family finished", map[string]interface{}{"saved": 12})
//
// Tests use NewTestLogger to capture messages, or NewNopLogger to discard
// them.
package logger
