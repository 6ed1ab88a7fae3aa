package contract

import (
	"github.com/weisyn/tokensdk/client/core/transport"
	sdkconfig "github.com/weisyn/tokensdk/internal/config/sdk"
	"github.com/weisyn/tokensdk/internal/core/capability/resolver"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/storage"
	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"go.uber.org/fx"
)

// ModuleParams 定义合约模块的依赖参数
type ModuleParams struct {
	fx.In

	Reader   sdktransport.Reader
	Resolver *resolver.Resolver
	Config   *sdkconfig.Config   `optional:"true"`
	Store    storage.MemoryStore `optional:"true"`
	Logger   log.Logger          `optional:"true"`
	Clock    clock.Clock         `optional:"true"`
}

// ModuleOutput 定义合约模块的输出结构
type ModuleOutput struct {
	fx.Out

	Fetcher sdktransport.MetadataFetcher
	Factory *Factory
}

// Module 返回合约模块
func Module() fx.Option {
	return fx.Module("contract",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建元数据获取器与合约工厂
//
// 配置开启元数据缓存且存在内存存储时，HTTP 获取器外层包一层共享缓存。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	options := params.Config
	if options == nil {
		options = sdkconfig.New(nil)
	}

	var fetcher sdktransport.MetadataFetcher = transport.NewHTTPFetcher(options.GetIPFSGateway(), options.GetMetadataTimeout())
	if options.IsMetadataCacheEnabled() && params.Store != nil {
		fetcher = transport.NewCachingFetcher(fetcher, params.Store, params.Logger)
	}

	factory, err := NewFactory(FactoryConfig{
		Reader:   params.Reader,
		Resolver: params.Resolver,
		Fetcher:  fetcher,
		Config:   options,
		Logger:   params.Logger,
		Clock:    params.Clock,
	})
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Fetcher: fetcher, Factory: factory}, nil
}
