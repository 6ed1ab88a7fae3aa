package normalize

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/pkg/types"
)

// ClaimTier 领取接口的历史层级
type ClaimTier int

const (
	// TierV0 旧条件元组、单笔上限与冷却时间、扁平证明、无集合上限
	TierV0 ClaimTier = iota
	// TierV1 在 V0 基础上增加集合上限与证明元组，仍无钱包计数器
	TierV1
	// TierV2 每钱包上限、阶段元数据与钱包已领取计数器
	TierV2
)

// String 实现 fmt.Stringer
func (t ClaimTier) String() string {
	switch t {
	case TierV0:
		return "V0"
	case TierV1:
		return "V1"
	case TierV2:
		return "V2"
	default:
		return "unknown"
	}
}

// HasWalletCounter 合约是否提供钱包在阶段内的已领取计数
func (t ClaimTier) HasWalletCounter() bool { return t == TierV2 }

// ConditionV0 V0/V1 的条件元组（字段顺序与 ABI 一致）
type ConditionV0 struct {
	StartTimestamp                 *big.Int
	MaxClaimableSupply             *big.Int
	SupplyClaimed                  *big.Int
	QuantityLimitPerTransaction    *big.Int
	WaitTimeInSecondsBetweenClaims *big.Int
	MerkleRoot                     [32]byte
	PricePerToken                  *big.Int
	Currency                       common.Address
}

// ConditionV2 V2 的条件元组（字段顺序与 ABI 一致）
type ConditionV2 struct {
	StartTimestamp         *big.Int
	MaxClaimableSupply     *big.Int
	SupplyClaimed          *big.Int
	QuantityLimitPerWallet *big.Int
	MerkleRoot             [32]byte
	PricePerToken          *big.Int
	Currency               common.Address
	Metadata               string
}

// ProofV1 V1 的白名单证明元组
type ProofV1 struct {
	Proof                  [][32]byte
	MaxQuantityInAllowlist *big.Int
}

// ProofV2 V2 的白名单证明元组
type ProofV2 struct {
	Proof                  [][32]byte
	QuantityLimitPerWallet *big.Int
	PricePerToken          *big.Int
	Currency               common.Address
}

// FromConditionV0 转换 V0/V1 条件；每钱包上限不存在，取哨兵
func FromConditionV0(id *big.Int, c ConditionV0) *types.ClaimCondition {
	return &types.ClaimCondition{
		ConditionID:                 bigOrZero(id),
		StartTime:                   unixTime(c.StartTimestamp),
		MaxClaimableSupply:          bigOrZero(c.MaxClaimableSupply),
		SupplyClaimed:               bigOrZero(c.SupplyClaimed),
		QuantityLimitPerWallet:      types.Unlimited(),
		QuantityLimitPerTransaction: bigOrZero(c.QuantityLimitPerTransaction),
		WaitInSeconds:               bigOrZero(c.WaitTimeInSecondsBetweenClaims),
		MerkleRoot:                  common.Hash(c.MerkleRoot),
		PricePerToken:               bigOrZero(c.PricePerToken),
		Currency:                    c.Currency,
	}
}

// FromConditionV2 转换 V2 条件；单笔上限与冷却时间不存在，取中性值
func FromConditionV2(id *big.Int, c ConditionV2) *types.ClaimCondition {
	return &types.ClaimCondition{
		ConditionID:                 bigOrZero(id),
		StartTime:                   unixTime(c.StartTimestamp),
		MaxClaimableSupply:          bigOrZero(c.MaxClaimableSupply),
		SupplyClaimed:               bigOrZero(c.SupplyClaimed),
		QuantityLimitPerWallet:      bigOrZero(c.QuantityLimitPerWallet),
		QuantityLimitPerTransaction: types.Unlimited(),
		WaitInSeconds:               new(big.Int),
		MerkleRoot:                  common.Hash(c.MerkleRoot),
		PricePerToken:               bigOrZero(c.PricePerToken),
		Currency:                    c.Currency,
		Metadata:                    c.Metadata,
	}
}

// ToConditionV2 把设置输入编码为 V2 条件元组；nil 上限按哨兵处理
func ToConditionV2(in types.ClaimConditionInput) ConditionV2 {
	maxClaimable := in.MaxClaimableSupply
	if maxClaimable == nil {
		maxClaimable = types.Unlimited()
	}
	perWallet := in.QuantityLimitPerWallet
	if perWallet == nil {
		perWallet = types.Unlimited()
	}
	price := in.PricePerToken
	if price == nil {
		price = new(big.Int)
	}
	var start *big.Int
	if in.StartTime.IsZero() {
		start = new(big.Int)
	} else {
		start = big.NewInt(in.StartTime.Unix())
	}
	return ConditionV2{
		StartTimestamp:         start,
		MaxClaimableSupply:     maxClaimable,
		SupplyClaimed:          new(big.Int),
		QuantityLimitPerWallet: perWallet,
		MerkleRoot:             in.MerkleRoot,
		PricePerToken:          price,
		Currency:               in.Currency,
		Metadata:               in.Metadata,
	}
}

// ApplySupply 写入集合层面的供应量与派生的剩余量
//
// maxTotal 为 nil 或 0 时视为无集合上限。swapInverted 只对已知存在字段颠倒问题的
// 合约版本开启：已领取数量大于上限时两者互换。
func ApplySupply(c *types.ClaimCondition, maxTotal, totalClaimed *big.Int, swapInverted bool) {
	limit := OrUnlimited(maxTotal)
	claimed := bigOrZero(totalClaimed)
	if swapInverted && !types.IsUnlimited(limit) && claimed.Cmp(limit) > 0 {
		limit, claimed = claimed, limit
	}
	c.MaxTotalSupply = limit
	c.TotalClaimed = claimed
	c.AvailableSupply = Remaining(limit, claimed)
	c.CurrentMintSupply = Remaining(c.MaxClaimableSupply, c.SupplyClaimed)
}

// ClaimerInput 评估钱包领取资格所需的链上快照
type ClaimerInput struct {
	Tier      ClaimTier
	Condition *types.ClaimCondition
	Wallet    common.Address
	Now       time.Time

	// WalletClaimed 钱包在本阶段已领取数量；仅 V2 提供
	WalletClaimed *big.Int
	// LastClaimedAt / NextValidClaimAt 仅 V0/V1 提供；零值表示从未领取
	LastClaimedAt    time.Time
	NextValidClaimAt time.Time

	Proof      *types.AllowlistProof
	ProofValid bool
}

// ClaimFlags 领取资格的各项判定
type ClaimFlags struct {
	NoSupply           bool
	Paused             bool
	NotAllowlisted     bool
	Throttled          bool
	AllowlistExhausted bool
	PhaseExhausted     bool
	WalletExhausted    bool
}

// ClassifyClaim 按固定优先级返回第一个成立的状态
func ClassifyClaim(f ClaimFlags) types.ClaimState {
	switch {
	case f.NoSupply:
		return types.ClaimStateNoTokenSupply
	case f.Paused:
		return types.ClaimStatePaused
	case f.NotAllowlisted:
		return types.ClaimStateNotAllowlisted
	case f.Throttled:
		return types.ClaimStateMintingThrottled
	case f.AllowlistExhausted:
		return types.ClaimStateClaimedAllowlistAllowance
	case f.PhaseExhausted:
		return types.ClaimStateClaimedPhaseAllowance
	case f.WalletExhausted:
		return types.ClaimStateClaimedWalletAllowance
	default:
		return types.ClaimStateOK
	}
}

// AllowlistRequired 阶段是否只允许白名单领取
//
// V0/V1 设置了白名单根即要求白名单；V2 只有公开每钱包上限为 0 时才要求。
func AllowlistRequired(tier ClaimTier, c *types.ClaimCondition) bool {
	if !c.AllowlistEnabled() {
		return false
	}
	if tier != TierV2 {
		return true
	}
	return isZero(c.QuantityLimitPerWallet)
}

// EvaluateClaimer 计算钱包可领取数量与状态
func EvaluateClaimer(in ClaimerInput) *types.ClaimerState {
	c := in.Condition
	if c.AvailableSupply == nil || c.CurrentMintSupply == nil {
		ApplySupply(c, c.MaxTotalSupply, c.TotalClaimed, false)
	}

	allowlisted := in.ProofValid && c.AllowlistEnabled()
	proofLimit := proofQuantity(in.Proof, allowlisted)

	// 旧合约的白名单只能领取一次：无计数器时以本阶段内的领取时间判断
	// V0/V1 公开每钱包上限恒为哨兵值，白名单条目总是与之不同，无需再比较
	singleShotUsed := !in.Tier.HasWalletCounter() &&
		c.AllowlistEnabled() &&
		!in.LastClaimedAt.IsZero() &&
		in.LastClaimedAt.After(c.StartTime)

	allowlistRemaining := types.Unlimited()
	walletRemaining := types.Unlimited()
	switch {
	case in.Tier.HasWalletCounter():
		if proofLimit != nil {
			allowlistRemaining = Remaining(proofLimit, in.WalletClaimed)
		} else {
			walletRemaining = Remaining(c.QuantityLimitPerWallet, in.WalletClaimed)
		}
	case singleShotUsed:
		walletRemaining = new(big.Int)
		if proofLimit != nil {
			allowlistRemaining = new(big.Int)
		}
	case proofLimit != nil:
		allowlistRemaining = proofLimit
	}

	available := NonNegative(Min(
		c.AvailableSupply,
		c.CurrentMintSupply,
		walletRemaining,
		allowlistRemaining,
		c.QuantityLimitPerTransaction,
	))

	var next time.Time
	if !in.Tier.HasWalletCounter() && in.NextValidClaimAt.After(in.Now) {
		next = in.NextValidClaimAt
	}

	flags := ClaimFlags{
		NoSupply:           isZero(c.AvailableSupply),
		Paused:             isZero(c.MaxClaimableSupply),
		NotAllowlisted:     AllowlistRequired(in.Tier, c) && !allowlisted,
		Throttled:          !next.IsZero(),
		AllowlistExhausted: isZero(allowlistRemaining),
		PhaseExhausted:     isZero(c.CurrentMintSupply),
		WalletExhausted:    isZero(walletRemaining),
	}

	price, currency := EffectivePrice(in.Tier, c, in.Proof, allowlisted)
	state := &types.ClaimerState{
		Wallet:            in.Wallet,
		Condition:         c,
		State:             ClassifyClaim(flags),
		AvailableQuantity: available,
		NextClaimTime:     next,
		Allowlisted:       allowlisted,
		PricePerToken:     price,
		Currency:          currency,
	}
	if in.WalletClaimed != nil {
		state.WalletClaimed = new(big.Int).Set(in.WalletClaimed)
	}
	if state.State != types.ClaimStateOK {
		state.AvailableQuantity = new(big.Int)
	}
	return state
}

// EffectivePrice 生效单价与币种
//
// 只有 V2 证明可以覆盖价格与币种；证明价格为 nil 或哨兵、币种为零地址时不覆盖。
func EffectivePrice(tier ClaimTier, c *types.ClaimCondition, proof *types.AllowlistProof, allowlisted bool) (*big.Int, common.Address) {
	price := bigOrZero(c.PricePerToken)
	currency := c.Currency
	if tier != TierV2 || !allowlisted || proof == nil {
		return price, currency
	}
	if proof.PricePerToken != nil && !types.IsUnlimited(proof.PricePerToken) {
		price = new(big.Int).Set(proof.PricePerToken)
	}
	if proof.Currency != (common.Address{}) {
		currency = proof.Currency
	}
	return price, currency
}

// ClaimValue 领取需要附带的原生代币数量；非原生币种为 nil
func ClaimValue(price *big.Int, currency common.Address, quantity *big.Int) *big.Int {
	if !types.IsNativeToken(currency) || price == nil || quantity == nil {
		return nil
	}
	return new(big.Int).Mul(price, quantity)
}

// VerifyAllowlist 按层级计算叶子并校验证明
func VerifyAllowlist(tier ClaimTier, root common.Hash, wallet common.Address, proof *types.AllowlistProof) bool {
	if proof == nil || root == (common.Hash{}) {
		return false
	}
	var leaf common.Hash
	if tier == TierV2 {
		price := proof.PricePerToken
		if price == nil {
			price = types.Unlimited()
		}
		leaf = AllowlistLeafV2(wallet, bigOrZero(proof.QuantityLimitPerWallet), price, proof.Currency)
	} else {
		leaf = AllowlistLeaf(wallet, bigOrZero(proof.QuantityLimitPerWallet))
	}
	return VerifyProof(proof.Proof, root, leaf)
}

// proofQuantity 证明给出的数量上限；未在白名单或证明未给出上限时为 nil
func proofQuantity(proof *types.AllowlistProof, allowlisted bool) *big.Int {
	if !allowlisted || proof == nil || proof.QuantityLimitPerWallet == nil || proof.QuantityLimitPerWallet.Sign() == 0 {
		return nil
	}
	return new(big.Int).Set(proof.QuantityLimitPerWallet)
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// unixTime uint256 秒转换为时间；0 为零值时间，超出 int64 的值截断
func unixTime(v *big.Int) time.Time {
	if v == nil || v.Sign() <= 0 {
		return time.Time{}
	}
	if !v.IsInt64() {
		return time.Unix(1<<62, 0).UTC()
	}
	return time.Unix(v.Int64(), 0).UTC()
}
