package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogFormat defines the output format of the log
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// ParseLevel maps a level name ("silent", "error", "warn", "info", "debug")
// to a LogLevel. Unknown names fall back to LogLevelWarn.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent", "off", "none":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "info":
		return LogLevelInfo
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelWarn
	}
}

// Logger is the interface used for internal mapping diagnostics.
type Logger interface {
	SetLevel(level LogLevel)
	SetFormat(format LogFormat)
	SetOutput(w io.Writer)
	WithFields(fields map[string]any) Logger
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// baseLogger contains common logging functionality
type baseLogger struct {
	mu     *sync.Mutex
	level  LogLevel
	format LogFormat
	writer io.Writer
	fields map[string]any
}

func (l *baseLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *baseLogger) SetFormat(format LogFormat) {
	l.format = format
}

func (l *baseLogger) SetOutput(w io.Writer) {
	l.writer = w
}

func (l *baseLogger) clone() *baseLogger {
	newFields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	return &baseLogger{
		mu:     l.mu,
		level:  l.level,
		format: l.format,
		writer: l.writer,
		fields: newFields,
	}
}

// stdLogger is the default implementation of Logger
type stdLogger struct {
	baseLogger
}

// NewStdLogger creates a new standard logger writing text to stderr at warn level.
func NewStdLogger() Logger {
	return &stdLogger{
		baseLogger: baseLogger{
			mu:     &sync.Mutex{},
			level:  LogLevelWarn,
			format: LogFormatText,
			writer: os.Stderr,
			fields: make(map[string]any),
		},
	}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	l := NewStdLogger()
	l.SetLevel(LogLevelSilent)
	l.SetOutput(io.Discard)
	return l
}

func (l *stdLogger) WithFields(fields map[string]any) Logger {
	newLogger := &stdLogger{
		baseLogger: *l.clone(),
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

func (l *stdLogger) Debug(format string, args ...any) {
	if l.level >= LogLevelDebug {
		l.log("DEBUG", format, args...)
	}
}

func (l *stdLogger) Info(format string, args ...any) {
	if l.level >= LogLevelInfo {
		l.log("INFO", format, args...)
	}
}

func (l *stdLogger) Warn(format string, args ...any) {
	if l.level >= LogLevelWarn {
		l.log("WARN", format, args...)
	}
}

func (l *stdLogger) Error(format string, args ...any) {
	if l.level >= LogLevelError {
		l.log("ERROR", format, args...)
	}
}

func (l *stdLogger) log(level string, format string, args ...any) {
	now := time.Now()
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == LogFormatJSON {
		data := make(map[string]any, len(l.fields)+3)
		for k, v := range l.fields {
			data[k] = v
		}
		data["time"] = now.Format(time.RFC3339)
		data["level"] = level
		data["msg"] = msg
		json.NewEncoder(l.writer).Encode(data)
		return
	}

	fieldStr := ""
	if len(l.fields) > 0 {
		fieldStr = fmt.Sprintf(" fields: %v", l.fields)
	}
	color := levelColor(level)
	fmt.Fprintf(l.writer, "[LAPPA] %s %s%s%s: %s%s\n", now.Format("2006-01-02 15:04:05"), color, level, ansiReset, msg, fieldStr)
}

func levelColor(level string) string {
	switch level {
	case "ERROR":
		return ansiRed
	case "WARN":
		return ansiYellow
	default:
		return ansiCyan
	}
}
