package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
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

// ParseLevel maps a level name to a Level. Unknown names fall back to INFO.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Format represents the log output format
type Format int

const (
	Text Format = iota
	JSON
)

// ParseFormat maps "json" to JSON and anything else to Text.
func ParseFormat(name string) Format {
	if strings.EqualFold(strings.TrimSpace(name), "json") {
		return JSON
	}
	return Text
}

// Fields carries structured data attached to a log line.
type Fields map[string]interface{}

// Logger handles structured logging
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format Format
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level  Level
	Format Format
	Output io.Writer
}

var (
	defaultLogger = New(LogConfig{Level: INFO, Format: Text, Output: os.Stderr})

	debugColor = color.New(color.FgCyan)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// New creates a logger. A nil Output writes to stderr.
func New(config LogConfig) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{out: out, level: config.Level, format: config.Format}
}

// Configure sets up the default logger
func Configure(config LogConfig) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = config.Level
	defaultLogger.format = config.Format
	if config.Output != nil {
		defaultLogger.out = config.Output
	}
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Data      Fields `json:"data,omitempty"`
}

func (l *Logger) log(level Level, msg string, data Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")

	if l.format == JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   msg,
			Data:      data,
		}
		if err := json.NewEncoder(l.out).Encode(entry); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode log entry: %v\n", err)
		}
		return
	}

	var levelColor *color.Color
	switch level {
	case DEBUG:
		levelColor = debugColor
	case WARN:
		levelColor = warnColor
	case ERROR:
		levelColor = errorColor
	default:
		levelColor = infoColor
	}

	levelStr := levelColor.Sprintf("%-5s", level.String())
	fmt.Fprintf(l.out, "%s %s: %s", timestamp, levelStr, msg)
	if len(data) > 0 {
		fmt.Fprintf(l.out, " %+v", map[string]interface{}(data))
	}
	fmt.Fprintln(l.out)
}

func (l *Logger) Debug(msg string, data ...Fields) {
	l.log(DEBUG, msg, firstOrNil(data))
}

func (l *Logger) Info(msg string, data ...Fields) {
	l.log(INFO, msg, firstOrNil(data))
}

func (l *Logger) Warn(msg string, data ...Fields) {
	l.log(WARN, msg, firstOrNil(data))
}

func (l *Logger) Error(msg string, err error, data ...Fields) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	l.log(ERROR, msg, firstOrNil(data))
}

func firstOrNil(data []Fields) Fields {
	if len(data) > 0 {
		return data[0]
	}
	return nil
}

// Default logger methods
func Debug(msg string, data ...Fields) {
	defaultLogger.Debug(msg, data...)
}

func Info(msg string, data ...Fields) {
	defaultLogger.Info(msg, data...)
}

func Warn(msg string, data ...Fields) {
	defaultLogger.Warn(msg, data...)
}

func Error(msg string, err error, data ...Fields) {
	defaultLogger.Error(msg, err, data...)
}
