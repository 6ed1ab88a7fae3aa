// Package capabilitytest 提供测试用的链上协作者替身
package capabilitytest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Handler 根据解码后的入参返回出参
type Handler func(args []interface{}) ([]interface{}, error)

type route struct {
	method  abi.Method
	handler Handler
}

// Reader 按方法选择器路由的只读调用替身
type Reader struct {
	mu     sync.Mutex
	routes map[[4]byte]route
	calls  []string
	// Err 非 nil 时所有调用直接失败
	Err error
}

var _ transport.Reader = (*Reader)(nil)

// NewReader 创建只读调用替身
func NewReader() *Reader {
	return &Reader{routes: make(map[[4]byte]route)}
}

// Handle 为某接口版本的方法注册处理函数；同选择器后注册者生效
func (r *Reader) Handle(id catalog.ID, method string, h Handler) *Reader {
	iface := catalog.Default().MustLookup(id)
	m, ok := iface.ABI.Methods[method]
	if !ok {
		panic(fmt.Sprintf("capabilitytest: %s 没有方法 %s", id, method))
	}
	var sel [4]byte
	copy(sel[:], m.ID)
	r.mu.Lock()
	r.routes[sel] = route{method: m, handler: h}
	r.mu.Unlock()
	return r
}

// Returns 注册固定返回值
func (r *Reader) Returns(id catalog.ID, method string, values ...interface{}) *Reader {
	return r.Handle(id, method, func([]interface{}) ([]interface{}, error) { return values, nil })
}

// Fails 注册固定错误
func (r *Reader) Fails(id catalog.ID, method string, err error) *Reader {
	return r.Handle(id, method, func([]interface{}) ([]interface{}, error) { return nil, err })
}

// Versions 注册 getSupportedInterfaceVersions 的返回
func (r *Reader) Versions(ids ...string) *Reader {
	m := catalog.Default().Introspection().Methods["getSupportedInterfaceVersions"]
	var sel [4]byte
	copy(sel[:], m.ID)
	declared := append([]string(nil), ids...)
	r.mu.Lock()
	r.routes[sel] = route{method: m, handler: func([]interface{}) ([]interface{}, error) {
		return []interface{}{declared}, nil
	}}
	r.mu.Unlock()
	return r
}

// CallContract 实现 transport.Reader
func (r *Reader) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if len(call.Data) < 4 {
		return nil, fmt.Errorf("调用数据过短")
	}
	var sel [4]byte
	copy(sel[:], call.Data[:4])

	r.mu.Lock()
	rt, ok := r.routes[sel]
	name := fmt.Sprintf("0x%x", sel)
	if ok {
		name = rt.method.Name
	}
	r.calls = append(r.calls, name)
	failure := r.Err
	r.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	if !ok {
		return nil, fmt.Errorf("execution reverted: 未注册的方法 %s", name)
	}
	args, err := rt.method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	out, err := rt.handler(args)
	if err != nil {
		return nil, err
	}
	return rt.method.Outputs.Pack(out...)
}

// CallCount 已发生的调用次数
func (r *Reader) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Calls 已调用的方法名（按发生顺序）
func (r *Reader) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Signer 记录请求的签名器替身
type Signer struct {
	mu        sync.Mutex
	From      common.Address
	Gas       uint64
	Err       error
	Sent      []*types.TransactionRequest
	Estimated []*types.TransactionRequest
}

var _ transport.Signer = (*Signer)(nil)

// NewSigner 创建签名器替身
func NewSigner(from common.Address) *Signer {
	return &Signer{From: from, Gas: 21_000}
}

// Address 实现 transport.Signer
func (s *Signer) Address() common.Address { return s.From }

// EstimateGas 实现 transport.Signer
func (s *Signer) EstimateGas(_ context.Context, req *types.TransactionRequest) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Estimated = append(s.Estimated, req)
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Gas, nil
}

// SendTransaction 实现 transport.Signer
func (s *Signer) SendTransaction(_ context.Context, req *types.TransactionRequest) (*gethtypes.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, req)
	if s.Err != nil {
		return nil, s.Err
	}
	to := req.To
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	return gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce: uint64(len(s.Sent) - 1),
		To:    &to,
		Value: value,
		Gas:   req.Gas,
		Data:  req.Data,
	}), nil
}
