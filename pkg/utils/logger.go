package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ColorCode returns the ANSI color code for the log level
func (l LogLevel) ColorCode() string {
	switch l {
	case LogLevelDebug:
		return "\033[36m" // Cyan
	case LogLevelInfo:
		return "\033[32m" // Green
	case LogLevelWarn:
		return "\033[33m" // Yellow
	case LogLevelError:
		return "\033[31m" // Red
	default:
		return "\033[0m"
	}
}

// Logger is the logging contract used by the resolver and the CLI.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// LogFormat represents the log output format
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
	LogFormatCompact
)

// ParseLogFormat maps a format name to a LogFormat, defaulting to text.
func ParseLogFormat(name string) LogFormat {
	switch strings.ToLower(name) {
	case "json":
		return LogFormatJSON
	case "compact":
		return LogFormatCompact
	default:
		return LogFormatText
	}
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level       LogLevel
	Format      LogFormat
	Output      io.Writer
	FilePath    string
	EnableColor bool
}

// DefaultLoggerConfig returns a default logger configuration.
// Diagnostics go to stderr so that rendered configuration on stdout stays clean.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		Output:      os.Stderr,
		EnableColor: true,
	}
}

// ConsoleLogger writes leveled log lines to a writer and optionally a file.
type ConsoleLogger struct {
	config *LoggerConfig
	logger *log.Logger
	fields map[string]interface{}
	file   *os.File
	now    func() time.Time
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config *LoggerConfig) (*ConsoleLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	l := &ConsoleLogger{
		config: config,
		fields: make(map[string]interface{}),
		now:    time.Now,
	}

	if err := l.setupOutput(); err != nil {
		return nil, fmt.Errorf("failed to setup logger output: %w", err)
	}

	return l, nil
}

func (l *ConsoleLogger) setupOutput() error {
	output := l.config.Output

	if l.config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(l.config.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(l.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		l.file = file
		output = io.MultiWriter(l.config.Output, file)
	}

	l.logger = log.New(output, "", 0)
	return nil
}

// Debug logs a debug message
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(LogLevelError, msg, args...)
}

func (l *ConsoleLogger) log(level LogLevel, msg string, args ...interface{}) {
	if level < l.config.Level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.Print(l.createLogEntry(level, msg))
}

func (l *ConsoleLogger) createLogEntry(level LogLevel, msg string) string {
	timestamp := l.now().Format("2006-01-02 15:04:05")

	switch l.config.Format {
	case LogFormatJSON:
		return l.createJSONEntry(level, msg, timestamp)
	case LogFormatCompact:
		return l.createCompactEntry(level, msg, timestamp)
	default:
		return l.createTextEntry(level, msg, timestamp)
	}
}

func (l *ConsoleLogger) sortedFieldKeys() []string {
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *ConsoleLogger) createTextEntry(level LogLevel, msg string, timestamp string) string {
	var builder strings.Builder

	if l.config.EnableColor {
		builder.WriteString(level.ColorCode())
	}

	builder.WriteString(fmt.Sprintf("[%s] %s", timestamp, level.String()))

	if len(l.fields) > 0 {
		builder.WriteString(" {")
		for i, k := range l.sortedFieldKeys() {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		builder.WriteString("}")
	}

	builder.WriteString(" ")
	builder.WriteString(msg)

	if l.config.EnableColor {
		builder.WriteString("\033[0m")
	}

	return builder.String()
}

func (l *ConsoleLogger) createCompactEntry(level LogLevel, msg string, timestamp string) string {
	line := fmt.Sprintf("%s %s %s", level.String()[:1], timestamp[11:19], msg)
	if l.config.EnableColor {
		return level.ColorCode() + line + "\033[0m"
	}
	return line
}

func (l *ConsoleLogger) createJSONEntry(level LogLevel, msg string, timestamp string) string {
	entry := make(map[string]interface{}, len(l.fields)+3)
	for k, v := range l.fields {
		entry[k] = v
	}
	entry["timestamp"] = timestamp
	entry["level"] = level.String()
	entry["message"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","message":"failed to encode log entry: %v"}`, err)
	}
	return string(data)
}

// SetLevel sets the logging level
func (l *ConsoleLogger) SetLevel(level LogLevel) {
	l.config.Level = level
}

// WithField returns a logger with an additional field
func (l *ConsoleLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger with additional fields
func (l *ConsoleLogger) WithFields(fields map[string]interface{}) Logger {
	child := &ConsoleLogger{
		config: l.config,
		logger: l.logger,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
		file:   l.file,
		now:    l.now,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

// Close closes the log file, if any
func (l *ConsoleLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

var (
	globalMu     sync.Mutex
	globalLogger Logger
)

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(config *LoggerConfig) (*ConsoleLogger, error) {
	logger, err := NewLogger(config)
	if err != nil {
		return nil, err
	}
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
	return logger, nil
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		logger, _ := NewLogger(DefaultLoggerConfig())
		globalLogger = logger
	}
	return globalLogger
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{})               {}
func (NopLogger) Info(string, ...interface{})                {}
func (NopLogger) Warn(string, ...interface{})                {}
func (NopLogger) Error(string, ...interface{})               {}
func (n NopLogger) WithField(string, interface{}) Logger     { return n }
func (n NopLogger) WithFields(map[string]interface{}) Logger { return n }
