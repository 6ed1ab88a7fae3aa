// Package capability 定义按版本调度的能力接口
//
// 每个逻辑操作对外暴露为一个能力对象，提供 Supported 与若干调用模式。
// 同一合约实例上的各调用模式解析到相同的分区与分支。
package capability

import (
	"context"

	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Supporter 能力是否可用
type Supporter interface {
	// Supported 合约是否声明了该能力处理的任一版本
	Supported(ctx context.Context) (bool, error)
}

// ReadFeature 只读能力
type ReadFeature[A any, R any] interface {
	Supporter

	// Execute 执行只读调用并返回统一形态的结果
	Execute(ctx context.Context, args A, opts *types.CallOptions) (R, error)

	// PopulateTransaction 返回主调用的 eth_call 描述，不执行调用
	PopulateTransaction(ctx context.Context, args A, opts *types.CallOptions) (*types.TransactionRequest, error)
}

// WriteFeature 写能力
type WriteFeature[A any] interface {
	Supporter

	// Execute 签名并发送交易
	Execute(ctx context.Context, signer transport.Signer, args A, opts *types.CallOptions) (*types.TransactionResult, error)

	// EstimateGas 估算交易消耗
	EstimateGas(ctx context.Context, signer transport.Signer, args A, opts *types.CallOptions) (uint64, error)

	// PopulateTransaction 返回未签名的交易描述
	PopulateTransaction(ctx context.Context, signer transport.Signer, args A, opts *types.CallOptions) (*types.TransactionRequest, error)
}
