// Package logging builds the zap logger shared by the storefront CLI and
// the engine components.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogLevel overrides the configured level when set.
const EnvLogLevel = "LOG_LEVEL"

const defaultLogLevel = "warn"

// New constructs a logger emitting structured JSON to stderr. level is
// parsed case-insensitively; LOG_LEVEL wins over it, and an unparsable
// value falls back to warn.
func New(level string) (*zap.Logger, error) {
	return build(level, "stderr")
}

// NewWriter constructs the same JSON logger writing to w. The browse TUI
// uses it to keep log lines off the terminal it draws on.
func NewWriter(level string, w io.Writer) *zap.Logger {
	return zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		parseLevel(level),
	))
}

func build(level, output string) (*zap.Logger, error) {
	cfg := zap.Config{
		Level:             parseLevel(level),
		Encoding:          "json",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     false,
		DisableStacktrace: true,
	}
	return cfg.Build()
}

func parseLevel(level string) zap.AtomicLevel {
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		level = env
	}
	level = strings.ToLower(strings.TrimSpace(level))
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil || level == "" {
		_ = lvl.UnmarshalText([]byte(defaultLogLevel))
	}
	return lvl
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		NameKey:    "logger",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeName:    zapcore.FullNameEncoder,
		CallerKey:     "caller",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		StacktraceKey: "stacktrace",
	}
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
