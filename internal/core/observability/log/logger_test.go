package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelInfo)

	l.Debug("hidden")
	l.Info("step", Int("bodies", 3), Float64("dt", 0.016), Stringer("level", stringer("x")))
	l.Warn("mass clamped", Error(errors.New("bad mass")))

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "step", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["bodies"])
	assert.Equal(t, "x", entries[0].ContextMap()["level"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "bad mass", entries[1].ContextMap()["error"])
}

func TestLoggerSetLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelError)

	l.Warn("dropped")
	l.SetLevel(LevelDebug)
	l.Debug("kept")

	assert.Equal(t, LevelDebug, l.GetLevel())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)

	l.SetLevel(LevelSilent)
	l.Error("silenced")
	l.Log(LevelSilent, "never")
	assert.Equal(t, 1, logs.Len())
}

func TestLoggerWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core, LevelDebug).With(String("system", "physics"))

	l.Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "physics", logs.All()[0].ContextMap()["system"])
}

func TestProvideFallsBackToNop(t *testing.T) {
	assert.NotNil(t, Provide())
	Provide().Warn("no default logger yet is fine")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

type stringer string

func (s stringer) String() string { return string(s) }
