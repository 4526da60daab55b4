package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest records one completed HTTP exchange. Non-2xx responses are
// logged at debug level here since the caller reports them as failures.
func LogRequest(l Logger, url string, statusCode int, duration time.Duration) {
	l.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":         url,
		"status_code": statusCode,
		"duration":    duration,
	})
}

// LogFamilyState records a family moving to a new pipeline state
func LogFamilyState(l Logger, family, state string) {
	l.DebugWithFields("family state changed", map[string]interface{}{
		"family": family,
		"state":  state,
	})
}

// LogFetchFailure writes the single diagnostic line for a URL or file that
// could not be fetched, parsed or saved.
func LogFetchFailure(l Logger, target string, err error) {
	l.ErrorWithFields("resource skipped", map[string]interface{}{
		"url":    target,
		"reason": err.Error(),
	})
}

// LogFamilySummary records the outcome of one family
func LogFamilySummary(l Logger, family string, fields map[string]interface{}) {
	l.WithField("family", family).InfoWithFields("family finished", fields)
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
