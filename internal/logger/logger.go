package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "stylesmith"

// New returns a console logger writing to w.
//
// Levels are "none", "normal" (info and above) and "debug".
func New(level string, w zapcore.WriteSyncer, color bool) (*zap.Logger, error) {
	var enabler zapcore.LevelEnabler
	switch level {
	case "none":
		return zap.NewNop(), nil
	case "normal", "":
		enabler = zapcore.InfoLevel
	case "debug":
		enabler = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (use none, normal or debug)", level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), w, enabler)
	return zap.New(core).Named(appName), nil
}

// Stderr returns a logger for the command line
func Stderr(level string) (*zap.Logger, error) {
	return New(level, zapcore.Lock(os.Stderr), EnableColorOutput(os.Stderr))
}

// EnableColorOutput reports whether f is a terminal and NO_COLOR is unset
func EnableColorOutput(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
