// Package logger builds the process-wide zap logger and adapts it to the
// logging interfaces of gorm and backlite.
package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// New creates a logger. format is "json" (production) or "console".
func New(level, format string) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	encoding := "json"
	if format == "console" {
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:            parseLevel(level),
		Development:      format == "console",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("service", "mediashelf")), nil
}

func parseLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}

// Gorm routes gorm's SQL logging through logger at warn level. Slow queries
// and errors are reported; record-not-found is expected and ignored.
func Gorm(logger *zap.Logger) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(logger.Named("gorm").WithOptions(zap.AddCallerSkip(3))),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Backlite implements backlite.Logger.
type Backlite struct {
	sugar *zap.SugaredLogger
}

func NewBacklite(logger *zap.Logger) *Backlite {
	return &Backlite{sugar: logger.Named("tasks").Sugar()}
}

func (l *Backlite) Info(message string, params ...any) {
	l.sugar.Infow(message, params...)
}

func (l *Backlite) Error(message string, params ...any) {
	l.sugar.Errorw(message, params...)
}
