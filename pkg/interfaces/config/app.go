package config

import "github.com/weisyn/tokensdk/pkg/types"

// SDKConfigOptions 用户配置来源接口
type SDKConfigOptions interface {
	// GetSDKConfig 获取用户SDK配置
	GetSDKConfig() *types.UserSDKConfig
}
