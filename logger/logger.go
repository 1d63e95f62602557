package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared application logger. Init replaces it; the default keeps
// package-level logging usable from tests without setup.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init configures the global logger. Debug switches to a development
// console encoder with human-readable timestamps.
func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return err
	}
	Log = l.Sugar()
	return nil
}

// Sync flushes buffered log entries, for use on shutdown.
func Sync() {
	_ = Log.Sync()
}
