// Package logger writes diagnostics to stderr through zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level names accepted by ParseLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger wraps a zerolog logger with key/value field helpers.
type Logger struct {
	zlog zerolog.Logger
}

// New returns a logger writing human-readable lines to w at the given level.
func New(w io.Writer, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return &Logger{zlog: zerolog.New(console).Level(lvl)}, nil
}

// ForVerbosity returns a stderr logger at debug level when verbose is set and
// warn level otherwise.
func ForVerbosity(w io.Writer, verbose bool) *Logger {
	level := LevelWarn
	if verbose {
		level = LevelDebug
	}
	l, _ := New(w, level)
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case LevelDebug:
		return zerolog.DebugLevel, nil
	case LevelInfo:
		return zerolog.InfoLevel, nil
	case LevelWarn, "warning", "":
		return zerolog.WarnLevel, nil
	case LevelError:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.WarnLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// Debug logs a debug message with optional key/value pairs.
func (l *Logger) Debug(msg string, fields ...any) {
	l.zlog.Debug().Fields(fieldsToMap(fields...)).Msg(msg)
}

// Info logs an info message with optional key/value pairs.
func (l *Logger) Info(msg string, fields ...any) {
	l.zlog.Info().Fields(fieldsToMap(fields...)).Msg(msg)
}

// Warn logs a warning with optional key/value pairs.
func (l *Logger) Warn(msg string, fields ...any) {
	l.zlog.Warn().Fields(fieldsToMap(fields...)).Msg(msg)
}

// Error logs err with optional key/value pairs.
func (l *Logger) Error(msg string, err error, fields ...any) {
	l.zlog.Error().Err(err).Fields(fieldsToMap(fields...)).Msg(msg)
}

// fieldsToMap pairs up alternating keys and values. Non-string keys and a
// trailing key without a value are dropped.
func fieldsToMap(fields ...any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			m[key] = fields[i+1]
		}
	}
	return m
}
