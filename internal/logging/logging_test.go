package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/suitekit/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: "chatty", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suitekit.log")
	cfg := config.DefaultLogConfig()
	cfg.Level = "warn"
	cfg.OutputPaths = []string{path}

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("suite built", zap.String("name", "nightly"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "suite built", entry["msg"])
	assert.Equal(t, "nightly", entry["name"])
	assert.Equal(t, "warn", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
}

func TestNew_Console(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	cfg := config.LogConfig{Level: "debug", Format: "console", OutputPaths: []string{path}}

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger.Debug("parsing")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "parsing")
	assert.False(t, strings.HasPrefix(string(data), "{"))
}

func TestNew_BadOutputPath(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.OutputPaths = []string{filepath.Join(t.TempDir(), "missing", "dir", "x.log")}

	_, err := New(cfg)
	assert.Error(t, err)
	assert.NotNil(t, MustNew(cfg))
}
