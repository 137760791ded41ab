package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the context-aware logging facade used across the service.
type Logger interface {
	Debug(ctx context.Context, args ...any)
	Debugf(ctx context.Context, template string, args ...any)
	Info(ctx context.Context, args ...any)
	Infof(ctx context.Context, template string, args ...any)
	Warn(ctx context.Context, args ...any)
	Warnf(ctx context.Context, template string, args ...any)
	Error(ctx context.Context, args ...any)
	Errorf(ctx context.Context, template string, args ...any)
	Fatal(ctx context.Context, args ...any)
	Fatalf(ctx context.Context, template string, args ...any)
	DPanic(ctx context.Context, args ...any)
	DPanicf(ctx context.Context, template string, args ...any)
	Panic(ctx context.Context, args ...any)
	Panicf(ctx context.Context, template string, args ...any)
}

// ZapConfig configures the zap-backed Logger.
type ZapConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = (*zapLogger)(nil)

// Init builds the process-wide Logger from config.
func Init(cfg ZapConfig) Logger {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.DebugLevel
	}

	var encoderCfg zapcore.EncoderConfig
	if cfg.Mode == "production" {
		encoderCfg = zap.NewProductionEncoderConfig()
	} else {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		if cfg.ColorEnabled {
			encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Mode != "production",
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if zcfg.Encoding == "" {
		zcfg.Encoding = "console"
	}

	logger, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	return &zapLogger{sugar: logger.Sugar()}
}

func (z *zapLogger) Debug(ctx context.Context, args ...any) { z.sugar.Debug(args...) }
func (z *zapLogger) Debugf(ctx context.Context, template string, args ...any) {
	z.sugar.Debugf(template, args...)
}
func (z *zapLogger) Info(ctx context.Context, args ...any) { z.sugar.Info(args...) }
func (z *zapLogger) Infof(ctx context.Context, template string, args ...any) {
	z.sugar.Infof(template, args...)
}
func (z *zapLogger) Warn(ctx context.Context, args ...any) { z.sugar.Warn(args...) }
func (z *zapLogger) Warnf(ctx context.Context, template string, args ...any) {
	z.sugar.Warnf(template, args...)
}
func (z *zapLogger) Error(ctx context.Context, args ...any) { z.sugar.Error(args...) }
func (z *zapLogger) Errorf(ctx context.Context, template string, args ...any) {
	z.sugar.Errorf(template, args...)
}
func (z *zapLogger) Fatal(ctx context.Context, args ...any) { z.sugar.Fatal(args...) }
func (z *zapLogger) Fatalf(ctx context.Context, template string, args ...any) {
	z.sugar.Fatalf(template, args...)
}
func (z *zapLogger) DPanic(ctx context.Context, args ...any) { z.sugar.DPanic(args...) }
func (z *zapLogger) DPanicf(ctx context.Context, template string, args ...any) {
	z.sugar.DPanicf(template, args...)
}
func (z *zapLogger) Panic(ctx context.Context, args ...any) { z.sugar.Panic(args...) }
func (z *zapLogger) Panicf(ctx context.Context, template string, args ...any) {
	z.sugar.Panicf(template, args...)
}
