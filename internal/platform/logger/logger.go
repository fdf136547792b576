package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap so packages depend on one logging type.
type Logger struct {
	*zap.Logger
	config *LoggerConfig
}

// NewLogger builds a zap logger from cfg. A nil cfg means DefaultConfig.
// Misconfiguration falls back to a production logger instead of failing.
func NewLogger(cfg *LoggerConfig) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var zapConfig zap.Config
	if strings.ToLower(cfg.Level) == "debug" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.ToZapLevel())

	output := cfg.OutputFile
	if output == "" {
		output = "stdout"
	}
	if output != "stdout" && output != "stderr" {
		logDir := filepath.Dir(output)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create log directory '%s', defaulting to stdout. Error: %v\n", logDir, err)
			zapConfig.OutputPaths = []string{"stdout"}
			zapConfig.ErrorOutputPaths = []string{"stderr"}
		} else {
			zapConfig.OutputPaths = []string{output, "stdout"}
			zapConfig.ErrorOutputPaths = []string{output, "stderr"}
		}
	} else {
		zapConfig.OutputPaths = []string{output}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	if f := strings.ToLower(cfg.Format); f == "console" || f == "text" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig.Encoding = "json"
	}

	l, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing zap logger: %v. Falling back to basic logger.\n", err)
		l, _ = zap.NewProduction()
	}
	return &Logger{Logger: l, config: cfg}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), config: DefaultConfig()}
}

// FromZap wraps an existing zap logger, mostly for tests using zaptest/observer.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{Logger: l, config: DefaultConfig()}
}

// Named adds a new path segment to the logger's name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name), config: l.config}
}

// With adds structured context to the logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), config: l.config}
}
