// Package dispatch 版本调度
//
// 逻辑操作在定义时校验覆盖完整性；调用时与合约的受支持版本集合求交，
// 按分区声明顺序选出唯一实现，再由分支表完成编码、调用与解码。
package dispatch

import (
	"fmt"
	"sort"
	"sync"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/cover"
)

// Operation 逻辑操作定义（无状态，所有合约实例共享）
type Operation struct {
	name        string
	handles     []catalog.ID
	handleSet   catalog.Set
	partitions  []cover.Partition
	tokenScoped bool
}

// OperationOption 操作定义选项
type OperationOption func(*Operation)

// TokenScoped 操作的参数受 token id 规则约束
func TokenScoped() OperationOption {
	return func(o *Operation) { o.tokenScoped = true }
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Operation{}
)

// Define 定义逻辑操作并登记
//
// 覆盖不完整、版本不在目录中或名称重复时返回错误。
func Define(name string, handles []catalog.ID, partitions []cover.Partition, opts ...OperationOption) (*Operation, error) {
	if name == "" {
		return nil, fmt.Errorf("操作名称不能为空")
	}
	c := catalog.Default()
	for _, id := range handles {
		if !c.Known(id) {
			return nil, fmt.Errorf("操作 %s 引用了目录外的版本 %s", name, id)
		}
	}
	if err := cover.Validate(name, handles, partitions); err != nil {
		return nil, err
	}

	op := &Operation{
		name:      name,
		handles:   append([]catalog.ID(nil), handles...),
		handleSet: catalog.NewSet(handles...),
	}
	for _, p := range partitions {
		op.partitions = append(op.partitions, cover.Partition{Key: p.Key, IDs: append([]catalog.ID(nil), p.IDs...)})
	}
	for _, opt := range opts {
		opt(op)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		return nil, fmt.Errorf("操作 %s 重复定义", name)
	}
	registry[name] = op
	return op, nil
}

// MustDefine 定义逻辑操作，失败时 panic
//
// 在包初始化阶段调用，覆盖不完整的操作无法进入运行期。
func MustDefine(name string, handles []catalog.ID, partitions []cover.Partition, opts ...OperationOption) *Operation {
	op, err := Define(name, handles, partitions, opts...)
	if err != nil {
		panic(err)
	}
	return op
}

// Operations 按名称排序返回全部已定义操作
func Operations() []*Operation {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ops := make([]*Operation, 0, len(registry))
	for _, op := range registry {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].name < ops[j].name })
	return ops
}

// Lookup 按名称查找已定义操作
func Lookup(name string) (*Operation, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	op, ok := registry[name]
	return op, ok
}

// Name 操作名称
func (o *Operation) Name() string { return o.name }

// Handles 操作处理的版本全集
func (o *Operation) Handles() []catalog.ID { return append([]catalog.ID(nil), o.handles...) }

// Cover 操作的分区覆盖（声明顺序）
func (o *Operation) Cover() []cover.Partition {
	out := make([]cover.Partition, len(o.partitions))
	for i, p := range o.partitions {
		out[i] = cover.Partition{Key: p.Key, IDs: append([]catalog.ID(nil), p.IDs...)}
	}
	return out
}

// IsTokenScoped 是否受 token id 规则约束
func (o *Operation) IsTokenScoped() bool { return o.tokenScoped }

// String 实现 fmt.Stringer
func (o *Operation) String() string { return o.name }
