package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	l, err := New("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New("dev", "not-a-level")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel), "dev config defaults to debug")
}

func TestGlobals(t *testing.T) {
	Init("oadr3-test", "prod", "error")
	require.NotNil(t, L())
	require.NotNil(t, S())
	assert.False(t, L().Core().Enabled(zapcore.WarnLevel))
	Sync()
}
