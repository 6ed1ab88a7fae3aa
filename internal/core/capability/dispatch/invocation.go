package dispatch

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Mode 调用模式
type Mode string

const (
	ModeExecute  Mode = "execute"
	ModeEstimate Mode = "estimateGas"
	ModePopulate Mode = "populateTransaction"
)

// Call 单次合约调用的描述
type Call struct {
	Method string
	Args   []interface{}
	Value  *big.Int // 写调用附带的原生代币；nil 时沿用调用参数
}

// Invocation 一次调度选中的分支上下文
//
// 分支处理函数通过它编码与读取，传输错误在这里统一包装为 CHAIN_ERROR。
type Invocation struct {
	binding   *Binding
	operation *Operation

	Key       string             // 命中的分区键；兜底分支为空
	ID        catalog.ID         // 命中（或兜底假定）的版本
	Standard  types.TokenStandard
	Supported catalog.Set
	Mode      Mode
	Opts      *types.CallOptions
}

// Address 合约地址
func (inv *Invocation) Address() common.Address { return inv.binding.address }

// Now 当前时间（来自绑定的时钟）
func (inv *Invocation) Now() time.Time { return inv.binding.clock.Now() }

// Logger 绑定的日志记录器
func (inv *Invocation) Logger() log.Logger { return inv.binding.logger }

// Interface 命中版本的接口定义
func (inv *Invocation) Interface() *catalog.Interface {
	return inv.binding.Catalog().MustLookup(inv.ID)
}

// Has 合约是否声明了某版本
func (inv *Invocation) Has(id catalog.ID) bool { return inv.Supported.Has(id) }

// Pack 按命中版本编码调用
func (inv *Invocation) Pack(call *Call) ([]byte, error) {
	return inv.PackWith(inv.ID, call)
}

// PackWith 按指定版本编码调用
func (inv *Invocation) PackWith(id catalog.ID, call *Call) ([]byte, error) {
	iface, ok := inv.binding.Catalog().Lookup(id)
	if !ok {
		return nil, sdkerrors.Newf(sdkerrors.KindFeatureNotSupported, "未知接口版本 %s", id)
	}
	data, err := iface.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindInvalidData, err, inv.callContext(id, call))
	}
	return data, nil
}

// Read 按命中版本执行只读调用
func (inv *Invocation) Read(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	return inv.ReadWith(ctx, inv.ID, method, args...)
}

// ReadWith 按指定版本执行只读调用
//
// 传输失败与返回数据无法解码都视为链上错误。
func (inv *Invocation) ReadWith(ctx context.Context, id catalog.ID, method string, args ...interface{}) ([]interface{}, error) {
	call := &Call{Method: method, Args: args}
	data, err := inv.PackWith(id, call)
	if err != nil {
		return nil, err
	}
	msg := inv.callMsg(data)
	var block *big.Int
	if inv.Opts != nil {
		block = inv.Opts.BlockNumber
	}
	out, err := inv.binding.reader.CallContract(ctx, msg, block)
	if err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindChainError, err, inv.callContext(id, call))
	}
	values, err := inv.binding.Catalog().MustLookup(id).Unpack(method, out)
	if err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindChainError, err, inv.callContext(id, call))
	}
	return values, nil
}

// request 构造调用描述
func (inv *Invocation) request(from common.Address, call *Call) (*types.TransactionRequest, error) {
	data, err := inv.Pack(call)
	if err != nil {
		return nil, err
	}
	req := &types.TransactionRequest{
		From:   from,
		To:     inv.binding.address,
		Data:   data,
		Method: call.Method,
	}
	if inv.Opts != nil {
		req.Gas = inv.Opts.GasLimit
		if inv.Opts.Value != nil {
			req.Value = new(big.Int).Set(inv.Opts.Value)
		}
	}
	if call.Value != nil {
		req.Value = new(big.Int).Set(call.Value)
	}
	return req, nil
}

func (inv *Invocation) callMsg(data []byte) ethereum.CallMsg {
	to := inv.binding.address
	msg := ethereum.CallMsg{To: &to, Data: data}
	if inv.Opts != nil {
		msg.From = inv.Opts.From
	}
	return msg
}

func (inv *Invocation) callContext(id catalog.ID, call *Call) map[string]interface{} {
	return map[string]interface{}{
		"operation": inv.operation.name,
		"address":   inv.binding.address.Hex(),
		"version":   string(id),
		"method":    call.Method,
		"args":      call.Args,
	}
}
