package transport

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// KeyedSigner 使用本地私钥签名的写调用签名器
//
// 调用数据已由调度层编码，这里只负责 nonce、gas 价格、签名与发送。
type KeyedSigner struct {
	opts    *bind.TransactOpts
	backend bind.ContractBackend
}

var _ sdktransport.Signer = (*KeyedSigner)(nil)

// NewKeyedSigner 由私钥与链 ID 创建签名器
func NewKeyedSigner(key *ecdsa.PrivateKey, chainID *big.Int, backend bind.ContractBackend) (*KeyedSigner, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	return &KeyedSigner{opts: opts, backend: backend}, nil
}

// NewSignerFromHex 由十六进制私钥创建签名器
func NewSignerFromHex(hexKey string, chainID *big.Int, backend bind.ContractBackend) (*KeyedSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return NewKeyedSigner(key, chainID, backend)
}

// Address 签名账户
func (s *KeyedSigner) Address() common.Address { return s.opts.From }

// EstimateGas 通过节点估算 gas
func (s *KeyedSigner) EstimateGas(ctx context.Context, req *types.TransactionRequest) (uint64, error) {
	msg := req.CallMsg()
	msg.From = s.opts.From
	return s.backend.EstimateGas(ctx, msg)
}

// SendTransaction 签名并发送；req.Gas 为 0 时由 bind 估算
func (s *KeyedSigner) SendTransaction(ctx context.Context, req *types.TransactionRequest) (*gethtypes.Transaction, error) {
	opts := *s.opts
	opts.Context = ctx
	opts.Value = req.Value
	opts.GasLimit = req.Gas
	contract := bind.NewBoundContract(req.To, abi.ABI{}, s.backend, s.backend, s.backend)
	return contract.RawTransact(&opts, req.Data)
}
