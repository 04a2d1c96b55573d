package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// ANSI color codes for console output
const (
	colorReset      = "\033[0m"
	colorCyan       = "\033[36m"
	colorGreen      = "\033[32m"
	colorBrightRed  = "\033[91m"
	colorBrightYell = "\033[93m"
	colorBrightGray = "\033[90m"
)

// Column width for aligned console output
const componentNameWidth = 16

// LogEntry represents a single log entry
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
}

// Logger provides structured leveled logging with streaming support.
// Components log through it; subscribers can tap the entry stream.
type Logger struct {
	component string
	version   string

	mu             sync.RWMutex
	subscribers    []chan LogEntry
	colorEnabled   bool
	disableConsole bool
}

// New creates a new logger instance for a named component.
func New(component, version string) *Logger {
	return &Logger{
		component:    component,
		version:      version,
		subscribers:  make([]chan LogEntry, 0),
		colorEnabled: isTerminal(),
	}
}

// isTerminal checks if we're outputting to a terminal (for color support)
func isTerminal() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func levelColor(level string) string {
	switch level {
	case "DEBUG":
		return colorBrightGray
	case "INFO":
		return colorGreen
	case "WARN":
		return colorBrightYell
	case "ERROR", "FATAL":
		return colorBrightRed
	default:
		return colorReset
	}
}

// Subscribe returns a channel that receives every log entry.
func (l *Logger) Subscribe() <-chan LogEntry {
	ch := make(chan LogEntry, 100)

	l.mu.Lock()
	l.subscribers = append(l.subscribers, ch)
	l.mu.Unlock()

	return ch
}

// DisableConsoleOutput stops console printing while keeping subscribers fed.
func (l *Logger) DisableConsoleOutput() {
	l.mu.Lock()
	l.disableConsole = true
	l.mu.Unlock()
}

// EnableConsoleOutput restores console printing (the default).
func (l *Logger) EnableConsoleOutput() {
	l.mu.Lock()
	l.disableConsole = false
	l.mu.Unlock()
}

func (l *Logger) log(level, message string, fields map[string]string) {
	now := time.Now()
	entry := LogEntry{
		Time:    now,
		Level:   level,
		Message: message,
		Fields:  fields,
	}

	l.mu.RLock()
	toConsole := !l.disableConsole
	l.mu.RUnlock()

	if toConsole {
		timestamp := now.Format("2006-01-02 15:04:05.000")

		color, reset := "", ""
		if l.colorEnabled {
			color = levelColor(level)
			reset = colorReset
		}

		line := fmt.Sprintf("%s[%s]%s [%-*s] [%s%-5s%s] %s",
			colorDim(l.colorEnabled), timestamp, reset,
			componentNameWidth, l.component,
			color, level, reset, message)
		fmt.Println(line)
	}

	l.mu.RLock()
	for _, ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
			// Skip if channel is full
		}
	}
	l.mu.RUnlock()
}

func colorDim(enabled bool) string {
	if enabled {
		return colorCyan
	}
	return ""
}

// Debug logs a debug message with optional formatting.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log("DEBUG", sprintf(format, args...), nil)
}

// Info logs an info message with optional formatting.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", sprintf(format, args...), nil)
}

// Warn logs a warning message with optional formatting.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", sprintf(format, args...), nil)
}

// Error logs an error message with optional formatting.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", sprintf(format, args...), nil)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log("FATAL", sprintf(format, args...), nil)
	os.Exit(1)
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// WithFields returns a context that attaches fields to logged entries.
func (l *Logger) WithFields(fields map[string]string) *LogContext {
	return &LogContext{logger: l, fields: fields}
}

// LogContext provides field-based logging
type LogContext struct {
	logger *Logger
	fields map[string]string
}

func (c *LogContext) Info(message string) {
	c.logger.log("INFO", message, c.fields)
}

func (c *LogContext) Error(message string) {
	c.logger.log("ERROR", message, c.fields)
}
