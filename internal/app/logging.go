package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel ranks the severity of a log event.
type LogLevel int

// Log levels, least to most severe.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var logLevelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the level's name.
func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return logLevelNames[l]
}

// ParseLogLevel maps a level name to its LogLevel, ignoring case.
// Unrecognized names fall back to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger writes leveled diagnostics, one event per line:
//
//	15:04:05.000 INFO  termstorm session started: id=f3a1 pid=4242
//
// While the TUI owns the host terminal anything printed to stderr tears
// the screen, so the sink is a file or nothing. The zero value discards
// everything; loggers derived with WithField share their parent's sink
// and append key=value pairs after the message.
type Logger struct {
	mu     *sync.Mutex // shared across derived loggers
	out    io.Writer   // nil discards
	level  LogLevel
	prefix string
	fields []logField
}

// logField is one key=value pair, rendered when attached.
type logField struct {
	key   string
	value string
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  LogLevelInfo,
		Output: os.Stderr,
		Prefix: "termstorm",
	}
}

// NewLogger creates a logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		mu:     &sync.Mutex{},
		out:    out,
		level:  cfg.Level,
		prefix: cfg.Prefix,
	}
}

// WithField derives a logger whose lines carry an extra key=value pair.
// The value is rendered here, not at log time.
func (l *Logger) WithField(key string, value any) *Logger {
	child := *l
	child.fields = append(l.fields[:len(l.fields):len(l.fields)],
		logField{key: key, value: fmt.Sprint(value)})
	return &child
}

// WithComponent derives a logger tagged with a component field.
func (l *Logger) WithComponent(name string) *Logger {
	return l.WithField("component", name)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l.out == nil || level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05.000"))
	fmt.Fprintf(&b, " %-5s ", level)
	if l.prefix != "" {
		b.WriteString(l.prefix)
		b.WriteByte(' ')
	}
	b.WriteString(msg)
	for _, f := range l.fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(f.value)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

// NullLogger discards all output.
var NullLogger = &Logger{}
