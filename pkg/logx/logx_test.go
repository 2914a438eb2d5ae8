package logx_test

import (
	"testing"

	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPackageLogger_WritesThroughReplacedCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logx.Replace(zap.New(core))

	logx.Infof("opened session %s", "s-1")
	logx.Debugf("dropped at info level")
	logx.With("session_id", "s-1").Warn("save failed")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "opened session s-1", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "s-1", entries[1].ContextMap()["session_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logx.LevelDebug, logx.ParseLevel("DEBUG"))
	assert.Equal(t, logx.LevelWarn, logx.ParseLevel("warning"))
	assert.Equal(t, logx.LevelError, logx.ParseLevel("error"))
	assert.Equal(t, logx.LevelInfo, logx.ParseLevel(""))
}
