// Package config provides configuration provider interfaces.
package config

import (
	logconfig "github.com/weisyn/tokensdk/internal/config/log"
	sdkconfig "github.com/weisyn/tokensdk/internal/config/sdk"
	memoryconfig "github.com/weisyn/tokensdk/internal/config/storage/memory"
)

// Provider 配置提供者接口
type Provider interface {
	// GetSDK 获取能力调度配置
	GetSDK() *sdkconfig.SDKOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetMemory 获取元数据缓存配置
	GetMemory() *memoryconfig.MemoryOptions
}
