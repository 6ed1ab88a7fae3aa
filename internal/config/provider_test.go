package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokensdk/pkg/types"
)

// TestGetSDK 测试 GetSDK() 方法
func TestGetSDK(t *testing.T) {
	t.Run("未配置时使用默认值", func(t *testing.T) {
		provider := NewProvider(nil)
		opts := provider.GetSDK()
		assert.False(t, opts.IncludeExperimental)
		assert.True(t, opts.MetricsEnabled)
		assert.Equal(t, "https://ipfs.io/ipfs/", opts.IPFSGateway)
	})

	t.Run("显式开启实验性版本", func(t *testing.T) {
		provider := NewProvider(&types.UserSDKConfig{IncludeExperimental: types.BoolPtr(true)})
		assert.True(t, provider.GetSDK().IncludeExperimental)
	})
}

// TestGetLog 测试 GetLog() 方法
func TestGetLog(t *testing.T) {
	t.Run("未配置时默认输出到控制台", func(t *testing.T) {
		opts := NewProvider(&types.UserSDKConfig{}).GetLog()
		assert.True(t, opts.ToConsole)
		assert.Empty(t, opts.FilePath)
	})

	t.Run("指定文件路径时关闭控制台", func(t *testing.T) {
		opts := NewProvider(&types.UserSDKConfig{
			Log: &types.UserLogConfig{
				Level:    types.StringPtr("debug"),
				FilePath: types.StringPtr("/tmp/tokensdk.log"),
			},
		}).GetLog()
		assert.Equal(t, "debug", opts.Level)
		assert.Equal(t, "/tmp/tokensdk.log", opts.FilePath)
		assert.False(t, opts.ToConsole)
	})
}

// TestGetMemory 测试 GetMemory() 方法
func TestGetMemory(t *testing.T) {
	t.Run("存活时间跟随元数据缓存配置", func(t *testing.T) {
		opts := NewProvider(&types.UserSDKConfig{MetadataCacheTTLSeconds: types.IntPtr(60)}).GetMemory()
		assert.Equal(t, time.Minute, opts.DefaultTTL)
		assert.Equal(t, 30*time.Second, opts.CleanupInterval)
	})

	t.Run("很短的存活时间清理间隔不低于 1 秒", func(t *testing.T) {
		opts := NewProvider(&types.UserSDKConfig{MetadataCacheTTLSeconds: types.IntPtr(1)}).GetMemory()
		assert.Equal(t, time.Second, opts.CleanupInterval)
	})
}

// TestLoadFile 测试 LoadFile()
func TestLoadFile(t *testing.T) {
	t.Run("读取 JSON 配置", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sdk.json")
		content := `{"include_experimental": true, "metadata_timeout_seconds": 5, "log": {"level": "warn"}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.IncludeExperimental)
		assert.True(t, *cfg.IncludeExperimental)
		assert.Equal(t, 5, *cfg.MetadataTimeoutSeconds)
		assert.Equal(t, "warn", NewProvider(cfg).GetLog().Level)
		assert.Nil(t, cfg.IPFSGateway)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("JSON 无效", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
