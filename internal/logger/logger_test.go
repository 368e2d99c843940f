package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/TheCreativeLad/Spam-Detection/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		enabled zapcore.Level
		dropped zapcore.Level
	}{
		{"json info", config.LogConfig{Level: "info", Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
		{"console debug", config.LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"error only", config.LogConfig{Level: "error", Format: "json"}, zapcore.ErrorLevel, zapcore.WarnLevel},
		{"unknown level", config.LogConfig{Level: "loud", Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)

			assert.NotNil(t, log)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.dropped))
		})
	}
}
