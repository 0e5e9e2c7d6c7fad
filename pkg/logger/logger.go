package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base        *zap.Logger
	serviceName = "default"
)

// Init builds the process-wide logger. LOG_PRETTY=1 switches to the
// development console encoder.
func Init(service string) error {
	serviceName = service

	cfg := zap.NewProductionConfig()
	if os.Getenv("LOG_PRETTY") == "1" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return err
	}
	base = l
	return nil
}

// root falls back to a nop logger so packages stay usable in tests that
// never call Init.
func root() *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base
}

func write(level zapcore.Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l := root().With(zap.String("service", serviceName))
	switch level {
	case zapcore.DebugLevel:
		l.Debug(msg)
	case zapcore.WarnLevel:
		l.Warn(msg)
	case zapcore.ErrorLevel:
		l.Error(msg)
	case zapcore.FatalLevel:
		l.Fatal(msg)
	default:
		l.Info(msg)
	}
}

func Debug(format string, args ...any) { write(zapcore.DebugLevel, format, args...) }
func Info(format string, args ...any)  { write(zapcore.InfoLevel, format, args...) }
func Warn(format string, args ...any)  { write(zapcore.WarnLevel, format, args...) }
func Error(format string, args ...any) { write(zapcore.ErrorLevel, format, args...) }
func Fatal(format string, args ...any) { write(zapcore.FatalLevel, format, args...) }

func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
