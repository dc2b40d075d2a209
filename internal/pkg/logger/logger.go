// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production JSON zap logger at the given level. Unknown
// level strings fall back to info.
func New(levelStr string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	unknownLevel := false
	switch strings.ToLower(levelStr) {
	case "debug":
		level = zapcore.DebugLevel
	case "info", "":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		unknownLevel = true
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	if unknownLevel {
		zapLogger.Warn("Unknown log level, using info", zap.String("input", levelStr))
	}
	return zapLogger, nil
}
