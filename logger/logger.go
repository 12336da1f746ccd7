package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Func is alias of logger function.
type Func = func(string, ...interface{})

// Level is level of logger.
type Level int8

func (s Level) String() string {
	switch s {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

const (
	// LevelDebug is DEBUG level.
	LevelDebug Level = iota
	// LevelInfo is INFO level.
	LevelInfo
	// LevelWarn is WARN level.
	LevelWarn
	// LevelError is ERROR level.
	LevelError
)

var (
	lvl        = LevelInfo
	i, d, w, e Func
)

func init() {
	// stdout carries the protocol, so the default logger writes to stderr.
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	UseZap(zap.New(core))
}

// UseZap binds all levels to the given zap logger.
func UseZap(l *zap.Logger) {
	if l == nil {
		return
	}
	sugar := l.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	d, i, w, e = sugar.Debugf, sugar.Infof, sugar.Warnf, sugar.Errorf
}

// SetLevel set global log level.
// Available levels are `LevelDebug`, `LevelInfo`, `LevelWarn` and `LevelError`.
func SetLevel(level Level) {
	lvl = level
}

// GetLevel returns current logger level.
func GetLevel() Level {
	return lvl
}

// SetFunc set logger func for custom level.
func SetFunc(level Level, fn Func) {
	if fn == nil {
		return
	}
	switch level {
	case LevelDebug:
		d = fn
	case LevelInfo:
		i = fn
	case LevelWarn:
		w = fn
	case LevelError:
		e = fn
	}
}

// IsDebugEnabled returns true if debug level is open.
func IsDebugEnabled() bool {
	return lvl <= LevelDebug
}

// Debugf prints debug level log.
func Debugf(format string, v ...interface{}) {
	if lvl > LevelDebug {
		return
	}
	d(format, v...)
}

// Infof prints info level log.
func Infof(format string, v ...interface{}) {
	if lvl > LevelInfo {
		return
	}
	i(format, v...)
}

// Warnf prints warn level log.
func Warnf(format string, v ...interface{}) {
	if lvl > LevelWarn {
		return
	}
	w(format, v...)
}

// Errorf prints error level log.
func Errorf(format string, v ...interface{}) {
	e(format, v...)
}
