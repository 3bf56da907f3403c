package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevelRoundTrip(t *testing.T) {
	l := NewLogger(nil, LevelDebug, "test")
	assert.Equal(t, LevelDebug, l.GetLevel())

	l.SetLevel(LevelWarning)
	assert.Equal(t, LevelWarning, l.GetLevel())

	require.NoError(t, l.SetLevelFromString("error"))
	assert.Equal(t, LevelError, l.GetLevel())

	require.NoError(t, l.SetLevelFromString("NONE"))
	assert.Equal(t, LevelNone, l.GetLevel())
}

func TestLoggerSetLevelFromStringInvalid(t *testing.T) {
	l := NewLogger(nil, LevelInfo, "test")
	err := l.SetLevelFromString("VERBOSE")
	assert.Error(t, err)
	assert.Equal(t, LevelInfo, l.GetLevel())
}

func TestLoggerEmitDoesNotPanic(t *testing.T) {
	l := NewLogger(nil, LevelDebug, "test")
	assert.NotPanics(t, func() {
		l.Debugw("debug message", "k", 1)
		l.Infow("info message")
		l.Warnw("warning message")
		l.Errorw("error message", "err", "boom")
		_ = l.Sync()
	})
}
