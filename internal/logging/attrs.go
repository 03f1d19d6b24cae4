package logging

import (
	"log/slog"
	"slices"
	"time"
)

// Keys shared by every vttscribe log line.
const (
	FieldComponent     = "component"
	FieldCorrelationID = "correlation_id"
	// FieldEventType is a stable snake_case name for filtering warnings.
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	// FieldImpact says what the warning means for the transcript being written.
	FieldImpact = "impact"
)

const (
	defaultWarnHint   = "rerun with --log-level debug for details"
	defaultWarnImpact = "transcription continues"
)

type Attr = slog.Attr

func Any(key string, value any) Attr                 { return slog.Any(key, value) }
func Bool(key string, value bool) Attr               { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }
func Float64(key string, value float64) Attr         { return slog.Float64(key, value) }
func Int(key string, value int) Attr                 { return slog.Int(key, value) }
func Int64(key string, value int64) Attr             { return slog.Int64(key, value) }
func String(key, value string) Attr                  { return slog.String(key, value) }

// Error records err under the "error" key. A nil err is logged as "<nil>"
// rather than dropped.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs into the variadic form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields
// a discarding one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Caller-supplied values win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, defaultWarnHint)
	attrs = withDefault(attrs, FieldImpact, defaultWarnImpact)
	logger.Warn(msg, Args(attrs...)...)
}

func withDefault(attrs []Attr, key, value string) []Attr {
	if slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key }) {
		return attrs
	}
	return append(attrs, String(key, value))
}
