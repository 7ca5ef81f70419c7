// Package log implements a small leveled logger which writes to the console
// and, optionally, a log file.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level is the visibility level of log output. ERROR is the lowest level and
// DEBUG the highest; a logger prints every entry at or below its level.
type Level int

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
)

// Logger writes formatted log entries to its sinks. It handles its own write
// errors, so callers never need to check anything.
type Logger struct {
	level   Level
	logFile *os.File
	inner   *charmlog.Logger
	mu      sync.Mutex
}

var (
	defaultLogger = newDefault()
	defaultMu     sync.RWMutex
)

// New creates a Logger at the given level. Entries are written to console
// (if not nil) and to the file at filePath (if not empty), which is opened in
// append mode and created with mode 0644 if needed.
func New(level Level, filePath string, console io.Writer) (*Logger, error) {
	var sinks []io.Writer
	var logFile *os.File
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		sinks = append(sinks, f)
	}
	if console != nil {
		sinks = append(sinks, console)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, io.Discard)
	}
	inner := charmlog.NewWithOptions(io.MultiWriter(sinks...), charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Prefix:          "crosshair",
	})
	l := &Logger{logFile: logFile, inner: inner}
	l.SetLevel(level)
	return l, nil
}

func newDefault() *Logger {
	l, _ := New(INFO, "", os.Stderr)
	return l
}

// ParseLevel converts a level name (error, warn, info, debug) to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return ERROR, nil
	case "warn", "warning":
		return WARN, nil
	case "", "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", name)
	}
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case ERROR:
		return "error"
	case WARN:
		return "warn"
	case INFO:
		return "info"
	case DEBUG:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func (l Level) charm() charmlog.Level {
	switch l {
	case ERROR:
		return charmlog.ErrorLevel
	case WARN:
		return charmlog.WarnLevel
	case DEBUG:
		return charmlog.DebugLevel
	default:
		return charmlog.InfoLevel
	}
}

// SetLevel sets the visibility level of the Logger.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.inner.SetLevel(level.charm())
}

// Level returns the visibility level of the Logger.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Error writes an ERROR entry.
func (l *Logger) Error(message string, args ...any) {
	l.inner.Errorf(message, args...)
}

// Warn writes a WARN entry if the level allows it.
func (l *Logger) Warn(message string, args ...any) {
	l.inner.Warnf(message, args...)
}

// Info writes an INFO entry if the level allows it.
func (l *Logger) Info(message string, args ...any) {
	l.inner.Infof(message, args...)
}

// Debug writes a DEBUG entry if the level allows it.
func (l *Logger) Debug(message string, args ...any) {
	l.inner.Debugf(message, args...)
}

// Close closes the log file, if any. The Logger keeps writing to its other
// sinks afterwards.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// SetDefault replaces the logger used by the package-level functions.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the logger used by the package-level functions.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Error writes an ERROR entry to the default logger.
func Error(message string, args ...any) {
	Default().Error(message, args...)
}

// Warn writes a WARN entry to the default logger.
func Warn(message string, args ...any) {
	Default().Warn(message, args...)
}

// Info writes an INFO entry to the default logger.
func Info(message string, args ...any) {
	Default().Info(message, args...)
}

// Debug writes a DEBUG entry to the default logger.
func Debug(message string, args ...any) {
	Default().Debug(message, args...)
}
