package presentation

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel mirrors the teacher's leveled-logger taxonomy
// (enhancement-logger.go's LevelDebug..LevelNone), kept as the public
// vocabulary for SetLevel/GetLevel/SetLevelFromString even though the
// implementation underneath is now go.uber.org/zap rather than a hand
// rolled io.Writer, per the ambient-stack decision in SPEC_FULL.md.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var levelToZap = map[LogLevel]zapcore.Level{
	LevelDebug:   zapcore.DebugLevel,
	LevelInfo:    zapcore.InfoLevel,
	LevelWarning: zapcore.WarnLevel,
	LevelError:   zapcore.ErrorLevel,
}

var stringToLevel = map[string]LogLevel{
	"DEBUG":   LevelDebug,
	"INFO":    LevelInfo,
	"WARNING": LevelWarning,
	"ERROR":   LevelError,
	"NONE":    LevelNone,
}

// Logger wraps a named zap.SugaredLogger with a mutable level, matching the
// construction shape of the teacher's SimpleLogger (NewSimpleLogger(output,
// level, prefix)) while giving ClientImpl and Client structured,
// field-based log lines instead of formatted strings.
type Logger struct {
	name  string
	level zap.AtomicLevel
	base  *zap.SugaredLogger
}

// NewLogger creates a named Logger at the given level. A nil base builds a
// production zap config writing to stderr, filtered by level. A non-nil
// base is used as is: its own level decides what is emitted, and level
// (like later SetLevel calls) is only recorded for GetLevel.
func NewLogger(base *zap.Logger, level LogLevel, name string) *Logger {
	al := zap.NewAtomicLevelAt(levelOrDisabled(level))
	if base == nil {
		cfg := zap.NewProductionConfig()
		cfg.Level = al
		built, err := cfg.Build()
		if err != nil {
			// Logging must never be able to crash the client.
			built = zap.NewNop()
		}
		base = built
	}
	return &Logger{
		name:  name,
		level: al,
		base:  base.Named(name).Sugar(),
	}
}

func levelOrDisabled(l LogLevel) zapcore.Level {
	if z, ok := levelToZap[l]; ok {
		return z
	}
	return zapcore.Level(math.MaxInt8) // above Error: effectively disables output
}

// SetLevel changes the minimum level this logger emits when it was built
// with a nil base; with a caller-supplied base it only changes what
// GetLevel reports.
func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(levelOrDisabled(level))
}

// GetLevel returns the current minimum level.
func (l *Logger) GetLevel() LogLevel {
	z := l.level.Level()
	for lvl, zl := range levelToZap {
		if zl == z {
			return lvl
		}
	}
	return LevelNone
}

// SetLevelFromString sets the level from its string form ("DEBUG", "INFO",
// "WARNING", "ERROR", "NONE"), case-insensitive, mirroring
// SimpleLogger.SetLevelFromString.
func (l *Logger) SetLevelFromString(s string) error {
	lvl, ok := stringToLevel[strings.ToUpper(s)]
	if !ok {
		return fmt.Errorf("invalid log level: %s", s)
	}
	l.SetLevel(lvl)
	return nil
}

func (l *Logger) Debugw(msg string, kv ...any) { l.base.Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...any)   { l.base.Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...any)   { l.base.Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...any)  { l.base.Errorw(msg, kv...) }

// Sync flushes any buffered log entries; safe to call on shutdown.
func (l *Logger) Sync() error { return l.base.Sync() }
