package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		env   string
		want  zapcore.Level
	}{
		{"explicit debug", "debug", "", zapcore.DebugLevel},
		{"case insensitive", "ERROR", "", zapcore.ErrorLevel},
		{"empty falls back to warn", "", "", zapcore.WarnLevel},
		{"garbage falls back to warn", "loud", "", zapcore.WarnLevel},
		{"env overrides config", "error", "info", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.env)
			assert.Equal(t, tt.want, parseLevel(tt.level).Level())
		})
	}
}

func TestNewWriter_EmitsJSON(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	logger := NewWriter("info", &buf)
	logger.Info("cart persisted")
	require.NoError(t, logger.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cart persisted", line["message"])
	assert.Equal(t, "INFO", line["severity"])
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
