package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/resolver"
	clockImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/clock"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Discoverer 获取合约自报的接口版本字符串
type Discoverer func(ctx context.Context) ([]string, error)

// Static 使用调用方给定的版本列表，不访问网络
func Static(declared []string) Discoverer {
	cp := append([]string(nil), declared...)
	return func(context.Context) ([]string, error) {
		return cp, nil
	}
}

// Introspect 通过 getSupportedInterfaceVersions() 读取合约自报版本
func Introspect(reader transport.Reader, address common.Address, c *catalog.Catalog) Discoverer {
	return func(ctx context.Context) ([]string, error) {
		parsed := c.Introspection()
		const method = "getSupportedInterfaceVersions"
		data, err := parsed.Pack(method)
		if err != nil {
			return nil, err
		}
		to := address
		out, err := reader.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if err != nil {
			return nil, err
		}
		values, err := parsed.Unpack(method, out)
		if err != nil {
			return nil, err
		}
		if len(values) != 1 {
			return nil, fmt.Errorf("%s 返回值数量异常: %d", method, len(values))
		}
		declared, ok := values[0].([]string)
		if !ok {
			return nil, fmt.Errorf("%s 返回值类型异常: %T", method, values[0])
		}
		return declared, nil
	}
}

// BindingConfig 合约绑定参数
type BindingConfig struct {
	Address             common.Address
	Reader              transport.Reader
	Resolver            *resolver.Resolver
	Discover            Discoverer // nil 时通过 Introspect 链上发现
	IncludeExperimental bool
	Logger              log.Logger
	Clock               clock.Clock
	MetricsEnabled      bool
}

// resolution 一次能力解析的结果；写入后只读
type resolution struct {
	set         catalog.Set
	standard    types.TokenStandard
	standardErr error
}

// Binding 单个合约实例的能力状态
//
// 受支持版本集合、代币标准与各操作的分区在首次使用时计算。
// 并发的首次调用可能各自完成解析，只有第一个写入者的结果被保留。
type Binding struct {
	address    common.Address
	reader     transport.Reader
	resolver   *resolver.Resolver
	discover   Discoverer
	experiment bool
	logger     log.Logger
	clock      clock.Clock
	metrics    bool
	instanceID string

	state      atomic.Pointer[resolution]
	partitions sync.Map // *Operation -> *Partition
}

// NewBinding 创建合约绑定，不发起网络请求
func NewBinding(cfg BindingConfig) *Binding {
	res := cfg.Resolver
	if res == nil {
		res = resolver.New(catalog.Default(), cfg.Logger)
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clockImpl.NewSystemClock()
	}
	discover := cfg.Discover
	if discover == nil {
		discover = Introspect(cfg.Reader, cfg.Address, res.Catalog())
	}
	instanceID := uuid.NewString()
	return &Binding{
		address:    cfg.Address,
		reader:     cfg.Reader,
		resolver:   res,
		discover:   discover,
		experiment: cfg.IncludeExperimental,
		logger: logImpl.NewModuleLogger(cfg.Logger, "dispatch").
			With("contract", cfg.Address.Hex(), "instance", instanceID),
		clock:      clk,
		metrics:    cfg.MetricsEnabled,
		instanceID: instanceID,
	}
}

// Address 合约地址
func (b *Binding) Address() common.Address { return b.address }

// InstanceID 实例标识（日志关联用）
func (b *Binding) InstanceID() string { return b.instanceID }

// Catalog 绑定使用的目录
func (b *Binding) Catalog() *catalog.Catalog { return b.resolver.Catalog() }

// Logger 绑定的日志记录器
func (b *Binding) Logger() log.Logger { return b.logger }

// capabilities 返回已记忆的解析结果，首次调用时完成解析
//
// 发现阶段的传输错误不记忆，下次调用重新发现。
func (b *Binding) capabilities(ctx context.Context) (*resolution, error) {
	if r := b.state.Load(); r != nil {
		return r, nil
	}
	declared, err := b.discover(ctx)
	if err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindChainError, err, map[string]interface{}{
			"address": b.address.Hex(),
			"method":  "getSupportedInterfaceVersions",
		})
	}
	set, std, stdErr := b.resolver.Resolve(declared, b.experiment)
	r := &resolution{set: set, standard: std, standardErr: stdErr}
	if !b.state.CompareAndSwap(nil, r) {
		return b.state.Load(), nil
	}
	if b.metrics {
		label := string(std)
		if stdErr != nil {
			label = "none"
		}
		resolutionsTotal.WithLabelValues(label).Inc()
	}
	return r, nil
}

// SupportedVersions 合约的受支持版本集合
func (b *Binding) SupportedVersions(ctx context.Context) (catalog.Set, error) {
	r, err := b.capabilities(ctx)
	if err != nil {
		return nil, err
	}
	return r.set, nil
}

// Standard 合约的代币标准；无法推导时返回 EMPTY_TOKEN_STANDARD
func (b *Binding) Standard(ctx context.Context) (types.TokenStandard, error) {
	r, err := b.capabilities(ctx)
	if err != nil {
		return "", err
	}
	return r.standard, r.standardErr
}

// Partition 操作在本合约上的分区（首次计算后记忆）
func (b *Binding) Partition(ctx context.Context, op *Operation) (*Partition, error) {
	r, err := b.capabilities(ctx)
	if err != nil {
		return nil, err
	}
	return b.partitionFor(op, r), nil
}

func (b *Binding) partitionFor(op *Operation, r *resolution) *Partition {
	if cached, ok := b.partitions.Load(op); ok {
		return cached.(*Partition)
	}
	actual, _ := b.partitions.LoadOrStore(op, ResolvePartition(op, r.set))
	return actual.(*Partition)
}

// Supported 操作是否可用
func (b *Binding) Supported(ctx context.Context, op *Operation) (bool, error) {
	p, err := b.Partition(ctx, op)
	if err != nil {
		return false, err
	}
	return p.Supported(), nil
}
