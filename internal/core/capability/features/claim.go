package features

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/internal/core/capability/normalize"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/types"
)

// maxClaimPhases 多阶段合约一次最多读取的阶段数
const maxClaimPhases = 256

// claimVersion 领取接口版本的形态
type claimVersion struct {
	tier       normalize.ClaimTier
	multiPhase bool
	multiToken bool
	// swapSupply 这两个版本的合约可能把已领取数量与集合上限颠倒返回
	swapSupply bool
}

var claimVersions = map[catalog.ID]claimVersion{
	catalog.DropSinglePhaseV0:     {tier: normalize.TierV0},
	catalog.DropSinglePhaseV1:     {tier: normalize.TierV1},
	catalog.DropSinglePhaseV2:     {tier: normalize.TierV2},
	catalog.DropMultiPhaseV0:      {tier: normalize.TierV0, multiPhase: true},
	catalog.DropMultiPhaseV1:      {tier: normalize.TierV1, multiPhase: true, swapSupply: true},
	catalog.DropMultiPhaseV2:      {tier: normalize.TierV2, multiPhase: true},
	catalog.DropSinglePhase1155V1: {tier: normalize.TierV1, multiToken: true},
	catalog.DropSinglePhase1155V2: {tier: normalize.TierV2, multiToken: true},
	catalog.DropMultiPhase1155V0:  {tier: normalize.TierV0, multiPhase: true, multiToken: true},
	catalog.DropMultiPhase1155V1:  {tier: normalize.TierV1, multiPhase: true, multiToken: true, swapSupply: true},
	catalog.DropMultiPhase1155V2:  {tier: normalize.TierV2, multiPhase: true, multiToken: true},
}

// ClaimConditions 领取条件能力
type ClaimConditions struct {
	GetActive       *dispatch.ReadFeature[types.ClaimConditionArgs, *types.ClaimCondition]
	GetAll          *dispatch.ReadFeature[types.ClaimConditionArgs, []*types.ClaimCondition]
	GetClaimerState *dispatch.ReadFeature[types.ClaimerArgs, *types.ClaimerState]
	Claim           *dispatch.WriteFeature[types.ClaimArgs]
	Set             *dispatch.WriteFeature[types.SetClaimConditionsArgs]
}

func newClaimConditions(b *dispatch.Binding) *ClaimConditions {
	return &ClaimConditions{
		GetActive:       newGetActiveCondition(b),
		GetAll:          newGetAllConditions(b),
		GetClaimerState: newGetClaimerState(b),
		Claim:           newClaim(b),
		Set:             newSetClaimConditions(b),
	}
}

// claimSource 在命中的领取接口版本上读取条件
type claimSource struct {
	inv     *dispatch.Invocation
	v       claimVersion
	tokenID *big.Int
}

func newClaimSource(inv *dispatch.Invocation, tokenID *big.Int) (claimSource, error) {
	v, ok := claimVersions[inv.ID]
	if !ok {
		return claimSource{}, sdkerrors.Newf(sdkerrors.KindFeatureNotSupported, "%s 不是领取接口版本", inv.ID)
	}
	return claimSource{inv: inv, v: v, tokenID: tokenID}, nil
}

// scoped 多代币版本在参数前加 token id
func (s claimSource) scoped(args ...interface{}) []interface{} {
	if !s.v.multiToken {
		return args
	}
	return append([]interface{}{s.tokenID}, args...)
}

// phased 多阶段版本在参数前加条件序号
func (s claimSource) phased(conditionID *big.Int, args ...interface{}) []interface{} {
	if s.v.multiPhase {
		args = append([]interface{}{conditionID}, args...)
	}
	return s.scoped(args...)
}

func (s claimSource) activeIDCall() *dispatch.Call {
	if s.v.multiPhase {
		return &dispatch.Call{Method: "getActiveClaimConditionId", Args: s.scoped()}
	}
	return &dispatch.Call{Method: "claimCondition", Args: s.scoped()}
}

func (s claimSource) activeID(ctx context.Context) (*big.Int, error) {
	if !s.v.multiPhase {
		return new(big.Int), nil
	}
	out, err := s.inv.Read(ctx, "getActiveClaimConditionId", s.scoped()...)
	if err != nil {
		return nil, err
	}
	return decodeValue[*big.Int]("getActiveClaimConditionId", out, 0)
}

func (s claimSource) condition(ctx context.Context, id *big.Int) (*types.ClaimCondition, error) {
	method := "claimCondition"
	args := s.scoped()
	if s.v.multiPhase {
		method = "getClaimConditionById"
		args = s.phased(id)
	}
	out, err := s.inv.Read(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, malformed(method, out)
	}
	if s.v.tier == normalize.TierV2 {
		c, err := decodeTuple[normalize.ConditionV2](method, out[0])
		if err != nil {
			return nil, err
		}
		return normalize.FromConditionV2(id, c), nil
	}
	c, err := decodeTuple[normalize.ConditionV0](method, out[0])
	if err != nil {
		return nil, err
	}
	return normalize.FromConditionV0(id, c), nil
}

// applySupply 读取集合上限与已领取数量并写入各条件
func (s claimSource) applySupply(ctx context.Context, conditions ...*types.ClaimCondition) error {
	var maxTotal *big.Int
	if _, ok := s.inv.Interface().ABI.Methods["maxTotalSupply"]; ok {
		out, err := s.inv.Read(ctx, "maxTotalSupply", s.scoped()...)
		if err != nil {
			return err
		}
		if maxTotal, err = decodeValue[*big.Int]("maxTotalSupply", out, 0); err != nil {
			return err
		}
	}

	method := "totalMinted"
	if s.v.multiToken {
		method = "totalSupply"
	}
	out, err := s.inv.Read(ctx, method, s.scoped()...)
	if err != nil {
		return err
	}
	claimed, err := decodeValue[*big.Int](method, out, 0)
	if err != nil {
		return err
	}
	for _, c := range conditions {
		normalize.ApplySupply(c, maxTotal, claimed, s.v.swapSupply)
	}
	return nil
}

func (s claimSource) active(ctx context.Context) (*types.ClaimCondition, error) {
	id, err := s.activeID(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.condition(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applySupply(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s claimSource) all(ctx context.Context) ([]*types.ClaimCondition, error) {
	if !s.v.multiPhase {
		c, err := s.active(ctx)
		if err != nil {
			return nil, err
		}
		return []*types.ClaimCondition{c}, nil
	}

	out, err := s.inv.Read(ctx, "claimCondition", s.scoped()...)
	if err != nil {
		return nil, err
	}
	startID, err := decodeValue[*big.Int]("claimCondition", out, 0)
	if err != nil {
		return nil, err
	}
	count, err := decodeValue[*big.Int]("claimCondition", out, 1)
	if err != nil {
		return nil, err
	}
	if !count.IsInt64() || count.Int64() > maxClaimPhases {
		return nil, sdkerrors.New(sdkerrors.KindChainError,
			fmt.Sprintf("领取阶段数量异常: %s", count),
			map[string]interface{}{"method": "claimCondition", "count": count.String()})
	}

	conditions := make([]*types.ClaimCondition, 0, count.Int64())
	for i := int64(0); i < count.Int64(); i++ {
		id := new(big.Int).Add(startID, big.NewInt(i))
		c, err := s.condition(ctx, id)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	if len(conditions) > 0 {
		if err := s.applySupply(ctx, conditions...); err != nil {
			return nil, err
		}
	}
	return conditions, nil
}

// claimerSnapshot V2 读取钱包已领取数量；V0/V1 读取领取时间
func (s claimSource) claimerSnapshot(ctx context.Context, conditionID *big.Int, wallet common.Address) (*big.Int, time.Time, time.Time, error) {
	if s.v.tier == normalize.TierV2 {
		out, err := s.inv.Read(ctx, "getSupplyClaimedByWallet", s.phased(conditionID, wallet)...)
		if err != nil {
			return nil, time.Time{}, time.Time{}, err
		}
		claimed, err := decodeValue[*big.Int]("getSupplyClaimedByWallet", out, 0)
		return claimed, time.Time{}, time.Time{}, err
	}
	out, err := s.inv.Read(ctx, "getClaimTimestamp", s.phased(conditionID, wallet)...)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	last, err := decodeValue[*big.Int]("getClaimTimestamp", out, 0)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	next, err := decodeValue[*big.Int]("getClaimTimestamp", out, 1)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	return nil, normalize.SecondsToTime(last), normalize.SecondsToTime(next), nil
}

// claimCall 按版本编码 claim 调用
func (s claimSource) claimCall(a types.ClaimArgs, price *big.Int, currency common.Address) *dispatch.Call {
	proof := a.Proof
	if proof == nil {
		proof = &types.AllowlistProof{}
	}
	data := a.Data
	if data == nil {
		data = []byte{}
	}
	args := []interface{}{a.Receiver}
	if s.v.multiToken {
		args = append(args, s.tokenID)
	}
	args = append(args, a.Quantity, currency, price)

	switch s.v.tier {
	case normalize.TierV0:
		args = append(args, hashesToWords(proof.Proof), bigOr(proof.QuantityLimitPerWallet, new(big.Int)))
	case normalize.TierV1:
		args = append(args, normalize.ProofV1{
			Proof:                  hashesToWords(proof.Proof),
			MaxQuantityInAllowlist: bigOr(proof.QuantityLimitPerWallet, new(big.Int)),
		}, data)
	default:
		args = append(args, normalize.ProofV2{
			Proof:                  hashesToWords(proof.Proof),
			QuantityLimitPerWallet: bigOr(proof.QuantityLimitPerWallet, new(big.Int)),
			PricePerToken:          bigOr(proof.PricePerToken, types.Unlimited()),
			Currency:               proof.Currency,
		}, data)
	}
	return &dispatch.Call{
		Method: "claim",
		Args:   args,
		Value:  normalize.ClaimValue(price, currency, a.Quantity),
	}
}

func conditionToken(a types.ClaimConditionArgs) *big.Int { return a.TokenID }

func newGetActiveCondition(b *dispatch.Binding) *dispatch.ReadFeature[types.ClaimConditionArgs, *types.ClaimCondition] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.ClaimConditionArgs) (*dispatch.Call, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		return s.activeIDCall(), nil
	}
	run := func(ctx context.Context, inv *dispatch.Invocation, a types.ClaimConditionArgs) (*types.ClaimCondition, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		return s.active(ctx)
	}
	return dispatch.NewRead(b, OpClaimConditions, dispatch.Rules[types.ClaimConditionArgs]{TokenID: conditionToken},
		dispatch.ReadBranch[types.ClaimConditionArgs, *types.ClaimCondition]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare, Run: run},
		dispatch.ReadBranch[types.ClaimConditionArgs, *types.ClaimCondition]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare, Run: run},
	)
}

func newGetAllConditions(b *dispatch.Binding) *dispatch.ReadFeature[types.ClaimConditionArgs, []*types.ClaimCondition] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.ClaimConditionArgs) (*dispatch.Call, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		return &dispatch.Call{Method: "claimCondition", Args: s.scoped()}, nil
	}
	run := func(ctx context.Context, inv *dispatch.Invocation, a types.ClaimConditionArgs) ([]*types.ClaimCondition, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		return s.all(ctx)
	}
	return dispatch.NewRead(b, OpClaimConditions, dispatch.Rules[types.ClaimConditionArgs]{TokenID: conditionToken},
		dispatch.ReadBranch[types.ClaimConditionArgs, []*types.ClaimCondition]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare, Run: run},
		dispatch.ReadBranch[types.ClaimConditionArgs, []*types.ClaimCondition]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare, Run: run},
	)
}

func newGetClaimerState(b *dispatch.Binding) *dispatch.ReadFeature[types.ClaimerArgs, *types.ClaimerState] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.ClaimerArgs) (*dispatch.Call, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		return s.activeIDCall(), nil
	}
	run := func(ctx context.Context, inv *dispatch.Invocation, a types.ClaimerArgs) (*types.ClaimerState, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		c, err := s.active(ctx)
		if err != nil {
			return nil, err
		}
		walletClaimed, last, next, err := s.claimerSnapshot(ctx, c.ConditionID, a.Wallet)
		if err != nil {
			return nil, err
		}
		valid := c.AllowlistEnabled() && normalize.VerifyAllowlist(s.v.tier, c.MerkleRoot, a.Wallet, a.Proof)
		return normalize.EvaluateClaimer(normalize.ClaimerInput{
			Tier:             s.v.tier,
			Condition:        c,
			Wallet:           a.Wallet,
			Now:              inv.Now(),
			WalletClaimed:    walletClaimed,
			LastClaimedAt:    last,
			NextValidClaimAt: next,
			Proof:            a.Proof,
			ProofValid:       valid,
		}), nil
	}
	return dispatch.NewRead(b, OpClaimConditions, dispatch.Rules[types.ClaimerArgs]{
		TokenID: func(a types.ClaimerArgs) *big.Int { return a.TokenID },
		Validate: func(a types.ClaimerArgs) error {
			if a.Wallet == (common.Address{}) {
				return invalid("钱包地址不能为零地址")
			}
			return nil
		},
	},
		dispatch.ReadBranch[types.ClaimerArgs, *types.ClaimerState]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare, Run: run},
		dispatch.ReadBranch[types.ClaimerArgs, *types.ClaimerState]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare, Run: run},
	)
}

// newClaim 领取
//
// 准备阶段通过同一版本读取当前阶段，确定价格与币种；原生币种时附带 price × quantity。
func newClaim(b *dispatch.Binding) *dispatch.WriteFeature[types.ClaimArgs] {
	prepare := func(ctx context.Context, inv *dispatch.Invocation, a types.ClaimArgs) (*dispatch.Call, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		c, err := s.active(ctx)
		if err != nil {
			return nil, err
		}
		price, currency := normalize.EffectivePrice(s.v.tier, c, a.Proof, a.Proof != nil)
		return s.claimCall(a, price, currency), nil
	}
	return dispatch.NewWrite(b, OpClaimConditions, dispatch.Rules[types.ClaimArgs]{
		TokenID: func(a types.ClaimArgs) *big.Int { return a.TokenID },
		Validate: func(a types.ClaimArgs) error {
			if a.Receiver == (common.Address{}) {
				return invalid("领取接收地址不能为零地址")
			}
			if a.Quantity == nil || a.Quantity.Sign() <= 0 {
				return invalid("领取数量必须大于 0")
			}
			return nil
		},
	},
		dispatch.WriteBranch[types.ClaimArgs]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare},
		dispatch.WriteBranch[types.ClaimArgs]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare},
	)
}

// newSetClaimConditions 设置领取条件（仅 V2）；阶段按开始时间升序提交
func newSetClaimConditions(b *dispatch.Binding) *dispatch.WriteFeature[types.SetClaimConditionsArgs] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.SetClaimConditionsArgs) (*dispatch.Call, error) {
		s, err := newClaimSource(inv, a.TokenID)
		if err != nil {
			return nil, err
		}
		inputs := append([]types.ClaimConditionInput(nil), a.Conditions...)
		sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].StartTime.Before(inputs[j].StartTime) })
		encoded := make([]normalize.ConditionV2, len(inputs))
		for i, in := range inputs {
			encoded[i] = normalize.ToConditionV2(in)
		}
		if s.v.multiPhase {
			return &dispatch.Call{Method: "setClaimConditions", Args: s.scoped(encoded, a.ResetClaimEligibility)}, nil
		}
		if len(encoded) != 1 {
			return nil, invalid("单阶段合约只能设置 1 个领取条件，收到 %d 个", len(encoded))
		}
		return &dispatch.Call{Method: "setClaimConditions", Args: s.scoped(encoded[0], a.ResetClaimEligibility)}, nil
	}
	return dispatch.NewWrite(b, OpSetClaimConditions, dispatch.Rules[types.SetClaimConditionsArgs]{
		TokenID: func(a types.SetClaimConditionsArgs) *big.Int { return a.TokenID },
		Validate: func(a types.SetClaimConditionsArgs) error {
			if len(a.Conditions) == 0 {
				return invalid("领取条件列表不能为空")
			}
			return nil
		},
	},
		dispatch.WriteBranch[types.SetClaimConditionsArgs]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare},
		dispatch.WriteBranch[types.SetClaimConditionsArgs]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare},
	)
}
