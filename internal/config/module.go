// Package config 提供SDK配置管理功能
package config

import (
	logconfig "github.com/weisyn/tokensdk/internal/config/log"
	sdkconfig "github.com/weisyn/tokensdk/internal/config/sdk"
	memoryconfig "github.com/weisyn/tokensdk/internal/config/storage/memory"
	"github.com/weisyn/tokensdk/pkg/interfaces/config"
	"github.com/weisyn/tokensdk/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 用户配置来源
	Options config.SDKConfigOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *sdkconfig.Config {
				return sdkconfig.FromOptions(provider.GetSDK())
			},
			func(provider config.Provider) *logconfig.Config {
				return logconfig.New(provider.GetLog())
			},
			func(provider config.Provider) *memoryconfig.Config {
				return memoryconfig.New(provider.GetMemory())
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var userConfig *types.UserSDKConfig
	if params.Options != nil {
		userConfig = params.Options.GetSDKConfig()
	}

	return ConfigOutput{
		Provider: NewProvider(userConfig),
	}, nil
}

// StaticOptions 直接持有用户配置的配置来源
type StaticOptions struct {
	Config *types.UserSDKConfig
}

// GetSDKConfig 实现 config.SDKConfigOptions
func (o StaticOptions) GetSDKConfig() *types.UserSDKConfig {
	return o.Config
}
