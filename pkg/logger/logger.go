// Package logger provides opinionated logging capabilities for tahadhari
package logger

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger on stdout. Debug enables debug level.
func NewLogger(debug bool) *zap.Logger {
	return NewConsoleLogger(os.Stdout, debug)
}

// NewConsoleLogger returns a human readable logger writing to w.
func NewConsoleLogger(w io.Writer, debug bool) *zap.Logger {
	encoderConfig := encoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level(debug),
	)

	return zap.New(core, zap.AddCaller())
}

// NewJSONLogger returns a structured JSON logger writing to w, for deployments
// where logs are shipped to a collector.
func NewJSONLogger(w io.Writer, debug bool) *zap.Logger {
	encoderConfig := encoderConfig()
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level(debug),
	)

	return zap.New(core, zap.AddCaller())
}

// Preview shortens s for log fields: newlines are flattened and the result is
// capped at maxLen runes.
func Preview(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func level(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}
