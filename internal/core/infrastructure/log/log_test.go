package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logconfig "github.com/weisyn/tokensdk/internal/config/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sdk.log")
	logger, err := New(logconfig.New(&logconfig.LogOptions{
		Level:    "debug",
		FilePath: path,
	}))
	require.NoError(t, err)

	logger.With("operation", "claim", "partition", "nft").Info("分区已解析")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "分区已解析", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "claim", entry["operation"])
	assert.Equal(t, "nft", entry["partition"])
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := Wrap(zap.New(core))

	logger.Debug("丢弃")
	logger.Info("丢弃")
	logger.Warnf("保留 %d", 1)
	logger.Errorf("保留 %d", 2)

	assert.Equal(t, 2, logs.Len())
}

func TestNewModuleLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewModuleLogger(Wrap(zap.New(core)), "capability")

	logger.Debug("resolved")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "capability", logs.All()[0].ContextMap()["module"])
}

func TestNewModuleLoggerNilBase(t *testing.T) {
	logger := NewModuleLogger(nil, "capability")
	require.NotNil(t, logger)
	logger.Info("no output")
}

func TestToZapFieldsOddArgs(t *testing.T) {
	fields := toZapFields("a", 1, "dangling")
	require.Len(t, fields, 1)
	assert.Equal(t, "a", fields[0].Key)

	fields = toZapFields(7, "x")
	require.Len(t, fields, 1)
	assert.Equal(t, "7", fields[0].Key)
}

func TestNoOutputConfiguredReturnsNop(t *testing.T) {
	logger, err := New(logconfig.New(&logconfig.LogOptions{Level: "info"}))
	require.NoError(t, err)
	assert.NotNil(t, logger.GetZapLogger())
}
