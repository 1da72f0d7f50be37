package services

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// LoggerConfig selects level, format and sink of a ProductionLogger.
type LoggerConfig struct {
	Service    string
	Level      string // debug, info, warn, error
	Structured bool   // JSON lines when true, console output otherwise
	Output     io.Writer
}

// ProductionLogger is a structured logger backed by zerolog
type ProductionLogger struct {
	zlog zerolog.Logger
}

// NewProductionLogger creates a production-ready logger
func NewProductionLogger(cfg LoggerConfig) *ProductionLogger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if !cfg.Structured {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()

	return &ProductionLogger{zlog: zlog}
}

// With returns a child logger carrying extra fields on every entry.
func (p *ProductionLogger) With(keysAndValues ...interface{}) *ProductionLogger {
	return &ProductionLogger{zlog: p.zlog.With().Fields(keysAndValues).Logger()}
}

// Zerolog exposes the underlying logger for components that log events directly.
func (p *ProductionLogger) Zerolog() *zerolog.Logger {
	return &p.zlog
}

// Info logs informational messages
func (p *ProductionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.zlog.Info().Fields(keysAndValues).Msg(msg)
}

// Error logs error messages
func (p *ProductionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.zlog.Error().Fields(keysAndValues).Msg(msg)
}

// Debug logs debug messages
func (p *ProductionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.zlog.Debug().Fields(keysAndValues).Msg(msg)
}

// Warn logs warning messages
func (p *ProductionLogger) Warn(msg string, keysAndValues ...interface{}) {
	p.zlog.Warn().Fields(keysAndValues).Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger builds the logger for the given environment.
// Tests get a NoOpLogger, production gets JSON lines, everything else gets console output.
func NewLogger(service, env, level string) Logger {
	if env == "test" {
		return &NoOpLogger{}
	}
	return NewProductionLogger(LoggerConfig{
		Service:    service,
		Level:      level,
		Structured: env == "production",
	})
}
