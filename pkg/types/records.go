package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MaxBps 版税基点上限（100%）
const MaxBps = 10_000

// RoyaltyInfo 版税信息
type RoyaltyInfo struct {
	Recipient common.Address
	Bps       uint16
}

// Percent 版税百分比
func (r RoyaltyInfo) Percent() float64 {
	return float64(r.Bps) / 100
}

// TermsDetails 条款信息
type TermsDetails struct {
	URI       string
	Version   uint8
	Activated bool
}

// TransferTimeWindow 可转让时间窗口
//
// Unbounded 为 true 时窗口没有结束时间，End 为零值。
type TransferTimeWindow struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// Contains 判断某时刻是否处于窗口内
func (w TransferTimeWindow) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.Unbounded || t.Before(w.End)
}

// ContractMetadata 合约级元数据
type ContractMetadata struct {
	URI          string                 `json:"-"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Image        string                 `json:"image"`
	ExternalLink string                 `json:"external_link"`
	Raw          map[string]interface{} `json:"-"`
}

// BalanceArgs 余额查询参数
type BalanceArgs struct {
	Owner   common.Address
	TokenID *big.Int // 仅多代币合约
}

// IssueArgs 发行参数
//
// 多代币合约需要 TokenID：已有 token 增发，NewTokenID() 表示新建。
type IssueArgs struct {
	To      common.Address
	TokenID *big.Int
	URI     string
	Amount  *big.Int // 仅多代币合约
}

// TokenRoyaltyArgs 单个 token 的版税查询参数
type TokenRoyaltyArgs struct {
	TokenID *big.Int
}

// SetRoyaltyArgs 设置版税参数；TokenID 为 nil 时设置默认版税
type SetRoyaltyArgs struct {
	TokenID   *big.Int
	Recipient common.Address
	Bps       uint16
}

// HasAcceptedTermsArgs 条款接受查询参数
type HasAcceptedTermsArgs struct {
	Account common.Address
}

// TransferWindowArgs 转让窗口查询参数
type TransferWindowArgs struct {
	TokenID *big.Int // 仅多代币合约
}

// SetTransferWindowArgs 设置转让窗口参数
type SetTransferWindowArgs struct {
	TokenID *big.Int
	Window  TransferTimeWindow
}

// SetContractURIArgs 设置合约元数据 URI 参数
type SetContractURIArgs struct {
	URI string
}

// NoArgs 无参数操作
type NoArgs struct{}
