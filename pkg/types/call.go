package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// CallOptions 调用参数（只读调用与写调用共用）
type CallOptions struct {
	From        common.Address // 只读调用的 msg.sender
	BlockNumber *big.Int       // 只读调用的区块高度；nil 为最新
	GasLimit    uint64         // 写调用的 gas 上限；0 由签名器估算
	Value       *big.Int       // 额外附带的原生代币
}

// TransactionRequest 未签名、未发送的调用描述
type TransactionRequest struct {
	From   common.Address
	To     common.Address
	Data   []byte
	Value  *big.Int
	Gas    uint64
	Method string // 便于日志与展示
}

// CallMsg 转换为 go-ethereum 的调用消息
func (r *TransactionRequest) CallMsg() ethereum.CallMsg {
	to := r.To
	return ethereum.CallMsg{
		From:  r.From,
		To:    &to,
		Gas:   r.Gas,
		Value: r.Value,
		Data:  r.Data,
	}
}

// TransactionResult 写调用结果
type TransactionResult struct {
	Hash        common.Hash
	Transaction *gethtypes.Transaction
	Request     *TransactionRequest
}
