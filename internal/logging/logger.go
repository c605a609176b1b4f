package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger defines a minimal, printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

var (
	defaultLevel   = INFO
	defaultLevelMu sync.RWMutex
)

// SetLevel sets the minimum level for loggers created afterwards.
func SetLevel(level LogLevel) {
	defaultLevelMu.Lock()
	defaultLevel = level
	defaultLevelMu.Unlock()
}

func currentLevel() LogLevel {
	defaultLevelMu.RLock()
	defer defaultLevelMu.RUnlock()
	return defaultLevel
}

// componentLogger writes leveled lines to stderr and, when available, to
// ~/yolearn-debug.log.
type componentLogger struct {
	component string
	mu        sync.Mutex
	file      *log.Logger
}

var (
	fileSinkOnce sync.Once
	fileSink     *log.Logger
)

func fileLogger() *log.Logger {
	fileSinkOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		logPath := filepath.Join(home, "yolearn-debug.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}
		fileSink = log.New(f, "", 0)
	})
	return fileSink
}

// NewComponentLogger creates a logger for a specific component
func NewComponentLogger(component string) Logger {
	return &componentLogger{component: component, file: fileLogger()}
}

func (l *componentLogger) log(level LogLevel, format string, args ...any) {
	if level < currentLevel() {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	} else {
		file = "???"
		line = 0
	}

	component := l.component
	if component == "" {
		component = "YOLEARN"
	}

	// Format: 2025-09-30 12:34:56 [INFO] [Component] file.go:123 - Message
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("%s [%s] [%s] %s:%d - %s",
		time.Now().Format("2006-01-02 15:04:05"),
		levelToString(level), component, file, line, message)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(os.Stderr, logLine)
	if l.file != nil {
		l.file.Println(logLine)
	}
}

func (l *componentLogger) Debug(format string, args ...any) { l.log(DEBUG, format, args...) }
func (l *componentLogger) Info(format string, args ...any)  { l.log(INFO, format, args...) }
func (l *componentLogger) Warn(format string, args ...any)  { l.log(WARN, format, args...) }
func (l *componentLogger) Error(format string, args ...any) { l.log(ERROR, format, args...) }

func levelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
