// Package contract 合约实例入口
//
// Factory 持有进程内共享的协作者（只读传输、解析器、元数据获取、日志、时钟），
// 每个 Contract 对应一个部署地址，版本发现与分区解析在首次调用时进行。
package contract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	sdkconfig "github.com/weisyn/tokensdk/internal/config/sdk"
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/internal/core/capability/features"
	"github.com/weisyn/tokensdk/internal/core/capability/resolver"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// FactoryConfig 工厂依赖
type FactoryConfig struct {
	Reader   transport.Reader          // 必填
	Resolver *resolver.Resolver        // nil 时使用内嵌目录
	Fetcher  transport.MetadataFetcher // nil 时合约元数据不可读
	Config   *sdkconfig.Config         // nil 时使用默认配置
	Logger   log.Logger
	Clock    clock.Clock
}

// Factory 合约实例工厂
type Factory struct {
	reader   transport.Reader
	resolver *resolver.Resolver
	fetcher  transport.MetadataFetcher
	config   *sdkconfig.Config
	logger   log.Logger
	clock    clock.Clock
}

// NewFactory 创建工厂
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if cfg.Reader == nil {
		return nil, fmt.Errorf("合约工厂缺少只读传输")
	}
	options := cfg.Config
	if options == nil {
		options = sdkconfig.New(nil)
	}
	logger := logImpl.NewModuleLogger(cfg.Logger, "contract")
	res := cfg.Resolver
	if res == nil {
		res = resolver.New(catalog.Default(), cfg.Logger)
	}
	return &Factory{
		reader:   cfg.Reader,
		resolver: res,
		fetcher:  cfg.Fetcher,
		config:   options,
		logger:   logger,
		clock:    cfg.Clock,
	}, nil
}

// Option 单个合约实例的选项
type Option func(*contractOptions)

type contractOptions struct {
	declared    []string
	hasDeclared bool
}

// WithDeclaredVersions 使用调用方给定的版本列表，不再读取链上自报版本
func WithDeclaredVersions(versions ...string) Option {
	return func(o *contractOptions) {
		o.declared = append([]string(nil), versions...)
		o.hasDeclared = true
	}
}

// Contract 单个部署合约的能力视图
type Contract struct {
	*features.Features
	binding *dispatch.Binding
}

// NewContract 绑定合约地址，不发起网络请求
func (f *Factory) NewContract(address common.Address, opts ...Option) *Contract {
	var o contractOptions
	for _, opt := range opts {
		opt(&o)
	}
	cfg := dispatch.BindingConfig{
		Address:             address,
		Reader:              f.reader,
		Resolver:            f.resolver,
		IncludeExperimental: f.config.IncludeExperimental(),
		Logger:              f.logger,
		Clock:               f.clock,
		MetricsEnabled:      f.config.IsMetricsEnabled(),
	}
	if o.hasDeclared {
		cfg.Discover = dispatch.Static(o.declared)
	}
	binding := dispatch.NewBinding(cfg)
	f.logger.Debugf("绑定合约: address=%s instance=%s", address.Hex(), binding.InstanceID())
	return &Contract{
		Features: features.New(binding, f.fetcher),
		binding:  binding,
	}
}

// Address 合约地址
func (c *Contract) Address() common.Address { return c.binding.Address() }

// InstanceID 实例标识
func (c *Contract) InstanceID() string { return c.binding.InstanceID() }

// SupportedVersions 合约的受支持版本集合
func (c *Contract) SupportedVersions(ctx context.Context) (catalog.Set, error) {
	return c.binding.SupportedVersions(ctx)
}

// Standard 合约的代币标准
func (c *Contract) Standard(ctx context.Context) (types.TokenStandard, error) {
	return c.binding.Standard(ctx)
}

// Partitions 全部已定义操作在本合约上的分区（按操作名排序）
func (c *Contract) Partitions(ctx context.Context) ([]*dispatch.Partition, error) {
	ops := dispatch.Operations()
	out := make([]*dispatch.Partition, 0, len(ops))
	for _, op := range ops {
		p, err := c.binding.Partition(ctx, op)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
