package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/interfaces/capability"
	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Branch 分支表项的公共部分
//
// Key 非空时，分区键解析到版本且 When 成立即命中；
// Key 为空时为兜底分支，假定 Fallback 版本存在，只在所有带键分支都未命中后考虑。
type Branch struct {
	Key      string
	Fallback catalog.ID
	When     func(std types.TokenStandard) bool
}

// ReadBranch 只读分支
type ReadBranch[A any, R any] struct {
	Branch
	Prepare func(ctx context.Context, inv *Invocation, args A) (*Call, error)
	Run     func(ctx context.Context, inv *Invocation, args A) (R, error)
}

// WriteBranch 写分支
type WriteBranch[A any] struct {
	Branch
	Prepare func(ctx context.Context, inv *Invocation, args A) (*Call, error)
}

// Rules 参数规则
type Rules[A any] struct {
	// TokenID 取出参数中的 token id；操作受 token id 规则约束时必须提供
	TokenID func(args A) *big.Int
	// Validate 其余本地前置条件，返回 INVALID_DATA
	Validate func(args A) error
}

// OnlyStandard 仅在指定代币标准下命中
func OnlyStandard(std types.TokenStandard) func(types.TokenStandard) bool {
	return func(s types.TokenStandard) bool { return s == std }
}

// ReadFeature 按版本调度的只读能力
type ReadFeature[A any, R any] struct {
	binding  *Binding
	op       *Operation
	rules    Rules[A]
	branches []ReadBranch[A, R]
}

var _ capability.ReadFeature[types.NoArgs, bool] = (*ReadFeature[types.NoArgs, bool])(nil)

// NewRead 创建只读能力；分支表与操作不匹配时 panic
func NewRead[A any, R any](b *Binding, op *Operation, rules Rules[A], branches ...ReadBranch[A, R]) *ReadFeature[A, R] {
	heads := make([]Branch, len(branches))
	for i, br := range branches {
		if br.Prepare == nil || br.Run == nil {
			panic(fmt.Sprintf("dispatch: 操作 %s 的分支 %d 缺少处理函数", op.name, i))
		}
		heads[i] = br.Branch
	}
	mustCheckBranches(op, rules.TokenID != nil, heads)
	return &ReadFeature[A, R]{binding: b, op: op, rules: rules, branches: branches}
}

// Supported 合约是否声明了该能力处理的任一版本
func (f *ReadFeature[A, R]) Supported(ctx context.Context) (bool, error) {
	return f.binding.Supported(ctx, f.op)
}

// Execute 执行只读调用
func (f *ReadFeature[A, R]) Execute(ctx context.Context, args A, opts *types.CallOptions) (result R, err error) {
	inv, idx, err := f.binding.begin(ctx, f.op, ModeExecute, args, f.rules.checker(f.op, args), f.heads(), opts)
	defer func() { err = f.binding.finish(f.op, ModeExecute, inv, args, err) }()
	if err != nil {
		return result, err
	}
	return f.branches[idx].Run(ctx, inv, args)
}

// PopulateTransaction 返回主调用的 eth_call 描述
func (f *ReadFeature[A, R]) PopulateTransaction(ctx context.Context, args A, opts *types.CallOptions) (req *types.TransactionRequest, err error) {
	inv, idx, err := f.binding.begin(ctx, f.op, ModePopulate, args, f.rules.checker(f.op, args), f.heads(), opts)
	defer func() { err = f.binding.finish(f.op, ModePopulate, inv, args, err) }()
	if err != nil {
		return nil, err
	}
	call, err := f.branches[idx].Prepare(ctx, inv, args)
	if err != nil {
		return nil, err
	}
	var from common.Address
	if opts != nil {
		from = opts.From
	}
	return inv.request(from, call)
}

func (f *ReadFeature[A, R]) heads() []Branch {
	heads := make([]Branch, len(f.branches))
	for i, br := range f.branches {
		heads[i] = br.Branch
	}
	return heads
}

// WriteFeature 按版本调度的写能力
type WriteFeature[A any] struct {
	binding  *Binding
	op       *Operation
	rules    Rules[A]
	branches []WriteBranch[A]
}

var _ capability.WriteFeature[types.NoArgs] = (*WriteFeature[types.NoArgs])(nil)

// NewWrite 创建写能力；分支表与操作不匹配时 panic
func NewWrite[A any](b *Binding, op *Operation, rules Rules[A], branches ...WriteBranch[A]) *WriteFeature[A] {
	heads := make([]Branch, len(branches))
	for i, br := range branches {
		if br.Prepare == nil {
			panic(fmt.Sprintf("dispatch: 操作 %s 的分支 %d 缺少处理函数", op.name, i))
		}
		heads[i] = br.Branch
	}
	mustCheckBranches(op, rules.TokenID != nil, heads)
	return &WriteFeature[A]{binding: b, op: op, rules: rules, branches: branches}
}

// Supported 合约是否声明了该能力处理的任一版本
func (f *WriteFeature[A]) Supported(ctx context.Context) (bool, error) {
	return f.binding.Supported(ctx, f.op)
}

// Execute 签名并发送交易
func (f *WriteFeature[A]) Execute(ctx context.Context, signer transport.Signer, args A, opts *types.CallOptions) (res *types.TransactionResult, err error) {
	req, inv, err := f.request(ctx, ModeExecute, signer, args, opts)
	defer func() { err = f.binding.finish(f.op, ModeExecute, inv, args, err) }()
	if err != nil {
		return nil, err
	}
	tx, err := signer.SendTransaction(ctx, req)
	if err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindChainError, err, requestContext(inv, req, args))
	}
	res = &types.TransactionResult{Transaction: tx, Request: req}
	if tx != nil {
		res.Hash = tx.Hash()
	}
	return res, nil
}

// EstimateGas 估算交易消耗
func (f *WriteFeature[A]) EstimateGas(ctx context.Context, signer transport.Signer, args A, opts *types.CallOptions) (gas uint64, err error) {
	req, inv, err := f.request(ctx, ModeEstimate, signer, args, opts)
	defer func() { err = f.binding.finish(f.op, ModeEstimate, inv, args, err) }()
	if err != nil {
		return 0, err
	}
	gas, err = signer.EstimateGas(ctx, req)
	if err != nil {
		return 0, sdkerrors.Wrap(sdkerrors.KindChainError, err, requestContext(inv, req, args))
	}
	return gas, nil
}

// PopulateTransaction 返回未签名的交易描述
func (f *WriteFeature[A]) PopulateTransaction(ctx context.Context, signer transport.Signer, args A, opts *types.CallOptions) (req *types.TransactionRequest, err error) {
	req, inv, err := f.request(ctx, ModePopulate, signer, args, opts)
	defer func() { err = f.binding.finish(f.op, ModePopulate, inv, args, err) }()
	return req, err
}

func (f *WriteFeature[A]) request(ctx context.Context, mode Mode, signer transport.Signer, args A, opts *types.CallOptions) (*types.TransactionRequest, *Invocation, error) {
	rules := f.rules
	validate := rules.Validate
	rules.Validate = func(a A) error {
		if signer == nil {
			return sdkerrors.New(sdkerrors.KindInvalidData, "写操作需要签名器", nil)
		}
		if validate != nil {
			return validate(a)
		}
		return nil
	}
	heads := make([]Branch, len(f.branches))
	for i, br := range f.branches {
		heads[i] = br.Branch
	}
	inv, idx, err := f.binding.begin(ctx, f.op, mode, args, rules.checker(f.op, args), heads, opts)
	if err != nil {
		return nil, inv, err
	}
	call, err := f.branches[idx].Prepare(ctx, inv, args)
	if err != nil {
		return nil, inv, err
	}
	req, err := inv.request(signer.Address(), call)
	return req, inv, err
}

func requestContext(inv *Invocation, req *types.TransactionRequest, args interface{}) map[string]interface{} {
	return map[string]interface{}{
		"operation": inv.operation.name,
		"address":   inv.binding.address.Hex(),
		"version":   string(inv.ID),
		"method":    req.Method,
		"args":      args,
	}
}

// begin 调度前的公共步骤，顺序固定：
// 能力解析 → 操作可用性 → 代币标准 → 参数规则 → 分支选择。
// 除能力解析外均不访问网络。
func (b *Binding) begin(ctx context.Context, op *Operation, mode Mode, args interface{}, check func(types.TokenStandard, map[string]interface{}) error, heads []Branch, opts *types.CallOptions) (*Invocation, int, error) {
	r, err := b.capabilities(ctx)
	if err != nil {
		return nil, -1, err
	}
	p := b.partitionFor(op, r)
	errCtx := map[string]interface{}{"operation": op.name, "address": b.address.Hex(), "args": args}
	if !p.Supported() {
		return nil, -1, sdkerrors.New(sdkerrors.KindFeatureNotSupported,
			fmt.Sprintf("合约不支持操作 %s", op.name), errCtx)
	}
	if r.standardErr != nil {
		return nil, -1, r.standardErr
	}
	if err := check(r.standard, errCtx); err != nil {
		return nil, -1, err
	}

	idx, key, id, ok := selectBranch(p, r.standard, heads)
	if !ok {
		return nil, -1, sdkerrors.New(sdkerrors.KindFeatureNotSupported,
			fmt.Sprintf("操作 %s 没有可用的版本实现", op.name), errCtx)
	}
	return &Invocation{
		binding:   b,
		operation: op,
		Key:       key,
		ID:        id,
		Standard:  r.standard,
		Supported: r.set,
		Mode:      mode,
		Opts:      opts,
	}, idx, nil
}

// checker 绑定参数后的规则检查：先 token id 规则，再其余前置条件
func (r Rules[A]) checker(op *Operation, args A) func(types.TokenStandard, map[string]interface{}) error {
	return func(std types.TokenStandard, errCtx map[string]interface{}) error {
		if op.tokenScoped {
			tokenID := r.TokenID(args)
			if std.IsMultiToken() && tokenID == nil {
				return sdkerrors.New(sdkerrors.KindTokenIDRequired,
					fmt.Sprintf("%s 合约的 %s 需要 token id", std, op.name), errCtx)
			}
			if !std.IsMultiToken() && tokenID != nil {
				return sdkerrors.New(sdkerrors.KindTokenIDRejected,
					fmt.Sprintf("%s 合约的 %s 不接受 token id", std, op.name), errCtx)
			}
		}
		if r.Validate == nil {
			return nil
		}
		err := r.Validate(args)
		if err == nil {
			return nil
		}
		var env *sdkerrors.Error
		if stderrors.As(err, &env) {
			if env.Context == nil {
				return env.WithContext("operation", op.name)
			}
			return env
		}
		return sdkerrors.Wrap(sdkerrors.KindInvalidData, err, errCtx)
	}
}

// finish 统一收尾：错误保证为信封，并记录日志与指标
func (b *Binding) finish(op *Operation, mode Mode, inv *Invocation, args interface{}, err error) error {
	if err != nil {
		err = sdkerrors.Ensure(err)
		kind := sdkerrors.KindOf(err)
		switch kind.Category() {
		case sdkerrors.CategoryInput, sdkerrors.CategoryFeature:
			b.logger.Debugf("%s %s 被拒绝: %v", op.name, mode, err)
		default:
			b.logger.Warnf("%s %s 失败: %v", op.name, mode, err)
		}
		if b.metrics {
			dispatchFailuresTotal.WithLabelValues(op.name, string(mode), string(kind)).Inc()
		}
		return err
	}
	if b.metrics {
		dispatchTotal.WithLabelValues(op.name, partitionLabel(inv), string(mode)).Inc()
	}
	return nil
}

func partitionLabel(inv *Invocation) string {
	switch {
	case inv == nil:
		return "none"
	case inv.Key == "":
		return "fallback"
	default:
		return inv.Key
	}
}

// selectBranch 先按声明顺序匹配带键分支，再考虑兜底分支
func selectBranch(p *Partition, std types.TokenStandard, heads []Branch) (int, string, catalog.ID, bool) {
	for i, h := range heads {
		if h.Key == "" {
			continue
		}
		id, ok := p.Match(h.Key)
		if ok && (h.When == nil || h.When(std)) {
			return i, h.Key, id, true
		}
	}
	for i, h := range heads {
		if h.Key != "" {
			continue
		}
		if h.When == nil || h.When(std) {
			return i, "", h.Fallback, true
		}
	}
	return -1, "", "", false
}

// mustCheckBranches 分支键必须属于操作的覆盖；受 token id 规则约束的操作必须提供 TokenID
func mustCheckBranches(op *Operation, hasTokenID bool, heads []Branch) {
	keys := make(map[string]struct{}, len(op.partitions))
	for _, p := range op.partitions {
		keys[p.Key] = struct{}{}
	}
	for i, h := range heads {
		switch {
		case h.Key == "" && h.Fallback == "":
			panic(fmt.Sprintf("dispatch: 操作 %s 的兜底分支 %d 未指定版本", op.name, i))
		case h.Key == "" && !catalog.Default().Known(h.Fallback):
			panic(fmt.Sprintf("dispatch: 操作 %s 的兜底版本 %s 不在目录中", op.name, h.Fallback))
		case h.Key != "":
			if _, ok := keys[h.Key]; !ok {
				panic(fmt.Sprintf("dispatch: 操作 %s 没有分区键 %q", op.name, h.Key))
			}
		}
	}
	if op.tokenScoped && !hasTokenID {
		panic(fmt.Sprintf("dispatch: 操作 %s 受 token id 规则约束但未提供 TokenID", op.name))
	}
}
