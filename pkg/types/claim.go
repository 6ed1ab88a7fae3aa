package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ClaimCondition 领取阶段条件（统一形态）
//
// 无论由哪个历史版本的接口应答，字段语义保持一致；不存在的字段取中性值：
// 数量上限缺失时为 Unlimited()，等待时间缺失时为 0。
type ClaimCondition struct {
	ConditionID                 *big.Int       // 多阶段合约中的条件序号；单阶段为 0
	StartTime                   time.Time      // 阶段开始时间
	MaxClaimableSupply          *big.Int       // 阶段上限
	SupplyClaimed               *big.Int       // 阶段已领取数量
	QuantityLimitPerWallet      *big.Int       // 每个钱包上限
	QuantityLimitPerTransaction *big.Int       // 单笔交易上限
	WaitInSeconds               *big.Int       // 两次领取之间的冷却时间
	MerkleRoot                  common.Hash    // 白名单根；零值表示未启用
	PricePerToken               *big.Int       // 单价
	Currency                    common.Address // 支付币种
	Metadata                    string         // 阶段元数据
	MaxTotalSupply              *big.Int       // 集合总上限
	TotalClaimed                *big.Int       // 集合已领取数量
	AvailableSupply             *big.Int       // 集合剩余可领取
	CurrentMintSupply           *big.Int       // 阶段剩余可领取
}

// AllowlistEnabled 阶段是否设置了白名单
func (c *ClaimCondition) AllowlistEnabled() bool {
	return c.MerkleRoot != (common.Hash{})
}

// ClaimState 领取资格状态
type ClaimState string

// 领取状态按固定优先级判定，先匹配者生效
const (
	ClaimStateNoTokenSupply             ClaimState = "no-token-supply"
	ClaimStatePaused                    ClaimState = "paused"
	ClaimStateNotAllowlisted            ClaimState = "not-allowlisted"
	ClaimStateMintingThrottled          ClaimState = "minting-throttled"
	ClaimStateClaimedAllowlistAllowance ClaimState = "claimed-allowlist-allowance"
	ClaimStateClaimedPhaseAllowance     ClaimState = "claimed-phase-allowance"
	ClaimStateClaimedWalletAllowance    ClaimState = "claimed-wallet-allowance"
	ClaimStateOK                        ClaimState = "ok"
)

// AllowlistProof 调用方提供的白名单证明
//
// QuantityLimitPerWallet 对旧版本合约即为白名单内最大可领取数量。
// PricePerToken 为 nil 或 Unlimited()、Currency 为零地址时表示不覆盖公开价格。
type AllowlistProof struct {
	Proof                  []common.Hash
	QuantityLimitPerWallet *big.Int
	PricePerToken          *big.Int
	Currency               common.Address
}

// ClaimerState 某钱包在当前阶段的领取资格
type ClaimerState struct {
	Wallet            common.Address
	Condition         *ClaimCondition
	State             ClaimState
	AvailableQuantity *big.Int       // 本钱包当前最多可领取数量
	WalletClaimed     *big.Int       // 本钱包已领取数量（合约无计数器时为 nil）
	NextClaimTime     time.Time      // 下次可领取时间；无冷却时为零值
	Allowlisted       bool           // 白名单证明是否有效
	PricePerToken     *big.Int       // 生效单价（含白名单覆盖）
	Currency          common.Address // 生效币种（含白名单覆盖）
}

// ClaimConditionArgs 读取领取条件的参数
type ClaimConditionArgs struct {
	TokenID *big.Int // 仅多代币合约
}

// ClaimerArgs 查询钱包领取资格的参数
type ClaimerArgs struct {
	TokenID *big.Int
	Wallet  common.Address
	Proof   *AllowlistProof
}

// ClaimArgs 领取参数
type ClaimArgs struct {
	TokenID  *big.Int
	Receiver common.Address
	Quantity *big.Int
	Proof    *AllowlistProof
	Data     []byte
}

// ClaimConditionInput 设置领取条件时的单个阶段
type ClaimConditionInput struct {
	StartTime              time.Time
	MaxClaimableSupply     *big.Int // nil 视为无上限
	QuantityLimitPerWallet *big.Int // nil 视为无上限
	PricePerToken          *big.Int // nil 视为免费
	Currency               common.Address
	MerkleRoot             common.Hash
	Metadata               string
}

// SetClaimConditionsArgs 设置领取条件参数
type SetClaimConditionsArgs struct {
	TokenID               *big.Int
	Conditions            []ClaimConditionInput
	ResetClaimEligibility bool
}
