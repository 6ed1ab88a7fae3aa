// Package client 代币合约 SDK 的统一入口
//
// 不使用依赖注入时，New 按用户配置依次创建日志、只读传输、元数据缓存与合约工厂。
package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/client/core/contract"
	"github.com/weisyn/tokensdk/client/core/transport"
	"github.com/weisyn/tokensdk/internal/config"
	logconfig "github.com/weisyn/tokensdk/internal/config/log"
	sdkconfig "github.com/weisyn/tokensdk/internal/config/sdk"
	memoryconfig "github.com/weisyn/tokensdk/internal/config/storage/memory"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Options 客户端选项
type Options struct {
	// Reader 自定义只读传输；为 nil 时按 Transport 与 Endpoints 建立故障转移客户端
	Reader    sdktransport.Reader
	Endpoints []transport.EndpointConfig
	// Transport 故障转移客户端配置；Endpoints 非空时追加到其中
	Transport transport.ClientConfig
	// Config 用户配置；nil 时全部使用默认值
	Config *types.UserSDKConfig
	// Logger 为 nil 时按 Config.Log 创建
	Logger log.Logger
}

func (o Options) transportConfig() transport.ClientConfig {
	cfg := o.Transport
	cfg.Endpoints = append(append([]transport.EndpointConfig(nil), o.Transport.Endpoints...), o.Endpoints...)
	return cfg
}

// Client 代币合约 SDK 客户端
type Client struct {
	factory  *contract.Factory
	fallback *transport.FallbackClient
	store    *memory.Store
	logger   log.Logger
}

// New 创建客户端
func New(ctx context.Context, opts Options) (*Client, error) {
	provider := config.NewProvider(opts.Config)
	options := sdkconfig.FromOptions(provider.GetSDK())

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logImpl.New(logconfig.New(provider.GetLog()))
		if err != nil {
			return nil, err
		}
	}

	c := &Client{logger: logger}
	reader := opts.Reader
	if reader == nil {
		fallback, err := transport.NewFallbackClient(ctx, opts.transportConfig(), transport.DialEthclient, logger)
		if err != nil {
			return nil, fmt.Errorf("创建只读传输失败: %w", err)
		}
		c.fallback = fallback
		reader = fallback
	}

	var fetcher sdktransport.MetadataFetcher = transport.NewHTTPFetcher(options.GetIPFSGateway(), options.GetMetadataTimeout())
	if options.IsMetadataCacheEnabled() {
		store, err := memory.New(memoryconfig.New(provider.GetMemory()), logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.store = store
		fetcher = transport.NewCachingFetcher(fetcher, store, logger)
	}

	factory, err := contract.NewFactory(contract.FactoryConfig{
		Reader:  reader,
		Fetcher: fetcher,
		Config:  options,
		Logger:  logger,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.factory = factory
	return c, nil
}

// Contract 绑定合约地址；不发起网络请求
func (c *Client) Contract(address common.Address, opts ...contract.Option) *contract.Contract {
	return c.factory.NewContract(address, opts...)
}

// Close 释放连接与缓存
func (c *Client) Close() {
	if c.fallback != nil {
		c.fallback.Close()
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger.Warnf("关闭元数据缓存失败: %v", err)
		}
	}
}
