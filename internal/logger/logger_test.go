package logger

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Additional-Code/tableside/internal/config"
)

func TestBuildLevels(t *testing.T) {
	cases := []struct {
		name  string
		obs   config.Observability
		level zapcore.Level
	}{
		{name: "json debug", obs: config.Observability{LogLevel: "debug", LogEncoding: "json"}, level: zapcore.DebugLevel},
		{name: "console warn", obs: config.Observability{LogLevel: "warn", LogEncoding: "console"}, level: zapcore.WarnLevel},
		{name: "unknown level", obs: config.Observability{LogLevel: "loud", LogEncoding: "json"}, level: zapcore.InfoLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Build(tc.obs)
			require.NoError(t, err)
			assert.Equal(t, tc.level, logger.Level())
		})
	}
}

func TestIgnoreSyncErr(t *testing.T) {
	assert.NoError(t, ignoreSyncErr(nil))
	assert.NoError(t, ignoreSyncErr(syscall.EINVAL))
	assert.NoError(t, ignoreSyncErr(syscall.ENOTTY))
	assert.Error(t, ignoreSyncErr(errors.New("disk full")))
}

func TestFxEvent(t *testing.T) {
	assert.NotNil(t, FxEvent(zap.NewNop()))
}
