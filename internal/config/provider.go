package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/weisyn/tokensdk/internal/config/log"
	"github.com/weisyn/tokensdk/internal/config/sdk"
	"github.com/weisyn/tokensdk/internal/config/storage/memory"
	"github.com/weisyn/tokensdk/pkg/interfaces/config"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	userConfig *types.UserSDKConfig
}

var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者；userConfig 为 nil 时全部使用默认值
func NewProvider(userConfig *types.UserSDKConfig) *Provider {
	return &Provider{
		userConfig: userConfig,
	}
}

// GetSDK 获取能力调度配置
func (p *Provider) GetSDK() *sdk.SDKOptions {
	// sdk.New会处理默认值应用和用户配置覆盖
	return sdk.New(p.userConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.userConfig != nil {
		userLogConfig = p.userConfig.Log
	}
	return log.New(userLogConfig).GetOptions()
}

// GetMemory 获取元数据缓存配置
//
// 缓存条目的存活时间跟随 SDK 的元数据缓存 TTL；TTL 为 0 时缓存不会被创建，这里仍返回默认值。
func (p *Provider) GetMemory() *memory.MemoryOptions {
	sdkOptions := p.GetSDK()
	user := &memory.MemoryOptions{}
	if sdkOptions.MetadataCacheTTL > 0 {
		user.DefaultTTL = sdkOptions.MetadataCacheTTL
		// 清理间隔取存活时间的一半，避免过期文档长时间占用内存
		user.CleanupInterval = sdkOptions.MetadataCacheTTL / 2
		if user.CleanupInterval < time.Second {
			user.CleanupInterval = time.Second
		}
	}
	return memory.New(user).GetOptions()
}

// LoadFile 从 JSON 文件读取用户配置
func LoadFile(path string) (*types.UserSDKConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("获取配置文件绝对路径失败: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败 %s: %w", absPath, err)
	}
	var userConfig types.UserSDKConfig
	if err := json.Unmarshal(data, &userConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败 %s: %w", absPath, err)
	}
	return &userConfig, nil
}
