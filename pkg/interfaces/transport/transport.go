// Package transport 定义能力调度依赖的外部协作者接口
//
// 只读调用、写调用签名与链下元数据获取都由调用方注入，调度层不持有私钥、不重试。
package transport

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/tokensdk/pkg/types"
)

// Reader 只读调用传输
//
// 与 bind.ContractCaller 的 CallContract 签名一致，*ethclient.Client 可直接使用。
type Reader interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Signer 写调用签名器
//
// 每次写操作显式传入，调度层不持有签名器。交易顺序与 nonce 由签名器负责。
type Signer interface {
	// Address 签名账户地址，作为交易 from
	Address() common.Address

	// EstimateGas 估算调用消耗
	EstimateGas(ctx context.Context, req *types.TransactionRequest) (uint64, error)

	// SendTransaction 签名并发送交易
	SendTransaction(ctx context.Context, req *types.TransactionRequest) (*gethtypes.Transaction, error)
}

// MetadataFetcher 链下元数据获取
type MetadataFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}
