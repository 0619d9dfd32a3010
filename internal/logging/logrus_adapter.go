package logging

import (
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log output formats accepted by NewLogrusAdapter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LogrusAdapter implements Logger on top of logrus. Derived loggers share the
// underlying *logrus.Logger and carry their own entry.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogrusAdapter builds a logger writing to stderr so that command output on
// stdout stays machine readable. Level names are case-insensitive and an empty
// level means info; an unknown level falls back to info with a warning. Any
// format other than "json" yields text with full timestamps.
func NewLogrusAdapter(level, format string) Logger {
	logger := logrus.New()
	logger.SetFormatter(newFormatter(format))

	lvl, err := parseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
	}
	logger.SetLevel(lvl)

	return NewLogrusAdapterFromLogger(logger)
}

// NewLogrusAdapterFromLogger wraps an existing logrus logger; nil creates one.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

func parseLevel(level string) (logrus.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, err
	}
	return lvl, nil
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		return &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.DateTime,
	}
}

// SetOutput redirects every logger derived from this adapter.
func (l *LogrusAdapter) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// Level returns the active level.
func (l *LogrusAdapter) Level() logrus.Level {
	return l.logger.GetLevel()
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) {
	l.log(logrus.DebugLevel, msg, fields)
}

func (l *LogrusAdapter) Info(msg string, fields ...Field) {
	l.log(logrus.InfoLevel, msg, fields)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Field) {
	l.log(logrus.WarnLevel, msg, fields)
}

func (l *LogrusAdapter) Error(msg string, fields ...Field) {
	l.log(logrus.ErrorLevel, msg, fields)
}

func (l *LogrusAdapter) WithError(err error) Logger {
	return l.derive(l.entry.WithError(err))
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.derive(l.entry.WithField(key, value))
}

func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.derive(l.entry.WithFields(convertFields(fields)))
}

// Fatal logs and exits with status 1.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Fatal(msg)
}

func (l *LogrusAdapter) Fatalf(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

func (l *LogrusAdapter) log(level logrus.Level, msg string, fields []Field) {
	if !l.logger.IsLevelEnabled(level) {
		return
	}
	l.entry.WithFields(convertFields(fields)).Log(level, msg)
}

func (l *LogrusAdapter) derive(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

// convertFields drops fields without a key; later duplicates win.
func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		out[field.Key] = field.Value
	}
	return out
}
