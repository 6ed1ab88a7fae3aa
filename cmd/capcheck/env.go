package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/weisyn/tokensdk/client/core/transport"
	"github.com/weisyn/tokensdk/internal/config"
	"github.com/weisyn/tokensdk/pkg/types"
)

// envConfig 环境变量配置
type envConfig struct {
	RPCURLs             []string      `env:"TOKENSDK_RPC_URLS" envSeparator:","`
	ConfigFile          string        `env:"TOKENSDK_CONFIG"`
	IncludeExperimental bool          `env:"TOKENSDK_INCLUDE_EXPERIMENTAL"`
	IPFSGateway         string        `env:"TOKENSDK_IPFS_GATEWAY"`
	LogLevel            string        `env:"TOKENSDK_LOG_LEVEL" envDefault:"warn"`
	RPCTimeout          time.Duration `env:"TOKENSDK_RPC_TIMEOUT" envDefault:"15s"`
}

func loadEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// userConfig 配置文件打底，环境变量中出现的值覆盖文件
func (c envConfig) userConfig() (*types.UserSDKConfig, error) {
	user := &types.UserSDKConfig{}
	if c.ConfigFile != "" {
		loaded, err := config.LoadFile(c.ConfigFile)
		if err != nil {
			return nil, err
		}
		user = loaded
	}
	if c.IncludeExperimental {
		user.IncludeExperimental = types.BoolPtr(true)
	}
	if c.IPFSGateway != "" {
		user.IPFSGateway = types.StringPtr(c.IPFSGateway)
	}
	if c.LogLevel != "" {
		if user.Log == nil {
			user.Log = &types.UserLogConfig{}
		}
		if user.Log.Level == nil {
			user.Log.Level = types.StringPtr(c.LogLevel)
		}
	}
	return user, nil
}

// clientConfig 端点按给出顺序确定优先级
func (c envConfig) clientConfig(urls []string) transport.ClientConfig {
	if len(urls) == 0 {
		urls = c.RPCURLs
	}
	endpoints := make([]transport.EndpointConfig, 0, len(urls))
	for i, u := range urls {
		endpoints = append(endpoints, transport.EndpointConfig{
			Name:     fmt.Sprintf("rpc-%d", i),
			Priority: i,
			RPC:      u,
		})
	}
	return transport.ClientConfig{
		Endpoints:     endpoints,
		Timeout:       c.RPCTimeout,
		RetryAttempts: len(endpoints),
	}
}
