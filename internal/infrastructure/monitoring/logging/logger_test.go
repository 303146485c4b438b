package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "a", Value: "b"}, String("a", "b"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "x", Value: 1.5}, Float64("x", 1.5))
	assert.Equal(t, Field{Key: "ok", Value: true}, Bool("ok", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
}

func TestErr(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)

	e := errors.New("boom")
	f := Err(e)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, e, f.Value)
}

func TestToZapFields(t *testing.T) {
	e := errors.New("boom")
	fields := toZapFields([]Field{
		String("s", "v"),
		Int("i", 1),
		Float64("f", 2.5),
		Bool("b", true),
		Duration("d", time.Minute),
		Err(e),
		Any("any", struct{ X int }{1}),
	})
	require.Len(t, fields, 7)
	assert.Equal(t, zap.String("s", "v"), fields[0])
	assert.Equal(t, zap.Int("i", 1), fields[1])
	assert.Equal(t, zap.Float64("f", 2.5), fields[2])
	assert.Equal(t, zap.Bool("b", true), fields[3])
	assert.Equal(t, zap.Duration("d", time.Minute), fields[4])
	assert.Equal(t, zap.NamedError("error", e), fields[5])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)

	// Child loggers share the sink and do not panic.
	log.With(String("component", "test")).Named("sub").Info("hello")
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(Config{OutputPaths: []string{"scheme://nowhere"}})
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Debug("discarded")
	log.Info("discarded")
	log.Warn("discarded")
	log.Error("discarded")
	log.With(Int("n", 1)).Named("x").Info("discarded")
}
