// Package logging provides real-time diagnostic output for tgkit.
// The unknown-error log (package unknownlog) is the durable record; this
// package provides optional console output for monitoring RPC failures,
// flood waits and redirects as they happen.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vinayprograms/tgkit/rpcerr"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger provides structured logging to stdout.
// This is for real-time monitoring only - durable collection of unknown
// errors goes through package unknownlog.
type Logger struct {
	mu        sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
	sessionID string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

// WithComponent returns a new logger with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
		sessionID: l.sessionID,
	}
}

// WithSessionID returns a new logger tagged with the given session ID.
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: l.component,
		sessionID: sessionID,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stdout).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry in traditional format: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- RPC event logging methods ---
// These are called at the points where a remote call outcome is classified.
// They provide real-time console output; durable unknown-error collection
// stays in package unknownlog.

// RPCFailure logs a classified RPC failure.
func (l *Logger) RPCFailure(method string, err error) {
	fields := map[string]interface{}{
		"method": method,
	}
	if e := rpcerr.As(err); e != nil {
		fields["code"] = e.Category().Code()
		fields["tag"] = e.Tag()
		if v, ok := e.Value(); ok {
			fields["value"] = v
		}
	} else if err != nil {
		fields["error"] = err.Error()
	}
	l.Error("rpc_failure", fields)
}

// FloodWait logs a flood wait imposed on a method.
func (l *Logger) FloodWait(method string, seconds int) {
	l.Warn("flood_wait", map[string]interface{}{
		"method":  method,
		"seconds": seconds,
	})
}

// UnknownError logs an unrecognized (code, tag) pair.
func (l *Logger) UnknownError(code int, tag string) {
	l.Warn("unknown_error", map[string]interface{}{
		"code": code,
		"tag":  tag,
	})
}

// Migrate logs a datacenter redirect.
func (l *Logger) Migrate(kind string, dc int) {
	l.Info("migrate", map[string]interface{}{
		"kind": kind,
		"dc":   dc,
	})
}

// RetryScheduled logs a retry decision made by the flood-wait helper.
func (l *Logger) RetryScheduled(method string, attempt int, delay time.Duration) {
	l.Debug("retry_scheduled", map[string]interface{}{
		"method":  method,
		"attempt": attempt,
		"delay":   delay.String(),
	})
}
