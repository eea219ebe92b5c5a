package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/agency-project-tracker/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json", Environment: "test"}

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{LogLevel: "loud", Environment: "test"}

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
