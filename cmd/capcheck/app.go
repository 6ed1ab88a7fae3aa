package main

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/weisyn/tokensdk/client/core/contract"
	"github.com/weisyn/tokensdk/client/core/transport"
	"github.com/weisyn/tokensdk/internal/config"
	"github.com/weisyn/tokensdk/internal/core/capability"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/internal/core/infrastructure/storage"
	configInterface "github.com/weisyn/tokensdk/pkg/interfaces/config"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
)

// startFactory 组装并启动依赖图，返回合约工厂与停止函数
func startFactory(ctx context.Context) (*contract.Factory, func(), error) {
	user, err := envCfg.userConfig()
	if err != nil {
		return nil, nil, err
	}
	clientConfig := envCfg.clientConfig(globalFlags.RPCURLs)
	if len(clientConfig.Endpoints) == 0 {
		return nil, nil, fmt.Errorf("未配置 RPC 地址：使用 --rpc 或 TOKENSDK_RPC_URLS")
	}

	var factory *contract.Factory
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() configInterface.SDKConfigOptions {
			return config.StaticOptions{Config: user}
		}),
		config.Module(),
		logImpl.Module(),
		storage.Module(),
		capability.Module(),
		fx.Provide(func(lc fx.Lifecycle, logger log.Logger) (sdktransport.Reader, error) {
			return provideReader(ctx, lc, clientConfig, logger)
		}),
		contract.Module(),
		fx.Populate(&factory),
	)
	if err := app.Start(ctx); err != nil {
		return nil, nil, err
	}
	stop := func() {
		_ = app.Stop(context.Background())
	}
	return factory, stop, nil
}

// provideReader 连接全部端点，应用停止时关闭
func provideReader(ctx context.Context, lc fx.Lifecycle, cfg transport.ClientConfig, logger log.Logger) (sdktransport.Reader, error) {
	client, err := transport.NewFallbackClient(ctx, cfg, transport.DialEthclient, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			client.Close()
			return nil
		},
	})
	return client, nil
}
