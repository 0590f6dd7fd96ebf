package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"produce-market/internal/core/config"
)

// New builds the process logger from the log section of the config. The
// returned func flushes buffered entries and should be deferred by main.
func New(c config.Log) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(c.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	enc := encoder(c.JSON)
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)}

	if c.File.Enable {
		rot := &lumberjack.Logger{
			Filename:   c.File.Filename,
			MaxSize:    max(1, c.File.MaxSizeMB),
			MaxBackups: max(0, c.File.MaxBackups),
			MaxAge:     max(0, c.File.MaxAgeDays),
			Compress:   c.File.Compress,
		}
		// file output is always JSON so it can be shipped as is
		cores = append(cores, zapcore.NewCore(encoder(true), zapcore.AddSync(rotWriter{rot}), lvl))
	}

	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller()}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() { _ = l.Sync() }
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Sync() error { return nil }

// RedirectStdLog routes the std "log" package (used by some drivers) into l.
func RedirectStdLog(l *zap.Logger) func() {
	undo, err := zap.RedirectStdLogAt(l.Named("stdlog"), zapcore.InfoLevel)
	if err != nil {
		return func() {}
	}
	return undo
}
