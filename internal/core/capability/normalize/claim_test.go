package normalize

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokensdk/pkg/types"
)

var (
	wallet = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	other  = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	start  = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now    = start.Add(48 * time.Hour)
)

func TestClassifyClaimPriority(t *testing.T) {
	order := []types.ClaimState{
		types.ClaimStateNoTokenSupply,
		types.ClaimStatePaused,
		types.ClaimStateNotAllowlisted,
		types.ClaimStateMintingThrottled,
		types.ClaimStateClaimedAllowlistAllowance,
		types.ClaimStateClaimedPhaseAllowance,
		types.ClaimStateClaimedWalletAllowance,
	}
	for mask := 0; mask < 1<<len(order); mask++ {
		set := func(i int) bool { return mask&(1<<i) != 0 }
		flags := ClaimFlags{
			NoSupply:           set(0),
			Paused:             set(1),
			NotAllowlisted:     set(2),
			Throttled:          set(3),
			AllowlistExhausted: set(4),
			PhaseExhausted:     set(5),
			WalletExhausted:    set(6),
		}
		want := types.ClaimStateOK
		for i, state := range order {
			if set(i) {
				want = state
				break
			}
		}
		assert.Equal(t, want, ClassifyClaim(flags), "mask=%07b", mask)
	}
}

func conditionV0(maxClaimable, claimed, perTx int64, root common.Hash) ConditionV0 {
	return ConditionV0{
		StartTimestamp:                 big.NewInt(start.Unix()),
		MaxClaimableSupply:             big.NewInt(maxClaimable),
		SupplyClaimed:                  big.NewInt(claimed),
		QuantityLimitPerTransaction:    big.NewInt(perTx),
		WaitTimeInSecondsBetweenClaims: big.NewInt(3600),
		MerkleRoot:                     root,
		PricePerToken:                  big.NewInt(10),
		Currency:                       types.NativeTokenAddress,
	}
}

func conditionV2(maxClaimable, claimed, perWallet int64, root common.Hash) ConditionV2 {
	return ConditionV2{
		StartTimestamp:         big.NewInt(start.Unix()),
		MaxClaimableSupply:     big.NewInt(maxClaimable),
		SupplyClaimed:          big.NewInt(claimed),
		QuantityLimitPerWallet: big.NewInt(perWallet),
		MerkleRoot:             root,
		PricePerToken:          big.NewInt(10),
		Currency:               types.NativeTokenAddress,
		Metadata:               "phase-1",
	}
}

func TestConditionConversion(t *testing.T) {
	t.Run("V0 条件", func(t *testing.T) {
		c := FromConditionV0(big.NewInt(2), conditionV0(100, 5, 3, common.Hash{}))
		assert.Equal(t, int64(2), c.ConditionID.Int64())
		assert.Equal(t, start, c.StartTime)
		assert.True(t, types.IsUnlimited(c.QuantityLimitPerWallet))
		assert.Equal(t, int64(3), c.QuantityLimitPerTransaction.Int64())
		assert.Equal(t, int64(3600), c.WaitInSeconds.Int64())
		assert.False(t, c.AllowlistEnabled())
	})

	t.Run("V2 条件", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(100, 5, 2, common.HexToHash("0x01")))
		assert.Equal(t, 0, c.ConditionID.Sign())
		assert.Equal(t, "phase-1", c.Metadata)
		assert.True(t, types.IsUnlimited(c.QuantityLimitPerTransaction))
		assert.Equal(t, 0, c.WaitInSeconds.Sign())
		assert.True(t, c.AllowlistEnabled())
	})

	t.Run("设置输入的默认值", func(t *testing.T) {
		out := ToConditionV2(types.ClaimConditionInput{StartTime: start})
		assert.True(t, types.IsUnlimited(out.MaxClaimableSupply))
		assert.True(t, types.IsUnlimited(out.QuantityLimitPerWallet))
		assert.Equal(t, 0, out.PricePerToken.Sign())
		assert.Equal(t, start.Unix(), out.StartTimestamp.Int64())
	})
}

func TestApplySupply(t *testing.T) {
	t.Run("哨兵上限与已领取 500", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(1000, 0, 1, common.Hash{}))
		ApplySupply(c, types.Unlimited(), big.NewInt(500), false)
		assert.True(t, types.IsUnlimited(c.AvailableSupply))
		assert.Equal(t, int64(500), c.TotalClaimed.Int64())
	})

	t.Run("零上限视为无集合上限", func(t *testing.T) {
		c := FromConditionV0(nil, conditionV0(10, 0, 1, common.Hash{}))
		ApplySupply(c, big.NewInt(0), big.NewInt(3), false)
		assert.True(t, types.IsUnlimited(c.AvailableSupply))
		assert.Equal(t, int64(10), c.CurrentMintSupply.Int64())
	})

	// 仅 DropMultiPhase_V1 / DropMultiPhase1155_V1 开启互换
	t.Run("版本特定的颠倒修正", func(t *testing.T) {
		swapped := FromConditionV0(nil, conditionV0(10, 0, 1, common.Hash{}))
		ApplySupply(swapped, big.NewInt(40), big.NewInt(100), true)
		assert.Equal(t, int64(100), swapped.MaxTotalSupply.Int64())
		assert.Equal(t, int64(40), swapped.TotalClaimed.Int64())
		assert.Equal(t, int64(60), swapped.AvailableSupply.Int64())

		plain := FromConditionV0(nil, conditionV0(10, 0, 1, common.Hash{}))
		ApplySupply(plain, big.NewInt(40), big.NewInt(100), false)
		assert.Equal(t, 0, plain.AvailableSupply.Sign())
	})
}

func TestEvaluateClaimer(t *testing.T) {
	t.Run("可领取数量取各项最小值", func(t *testing.T) {
		c := FromConditionV0(nil, conditionV0(10, 2, 3, common.Hash{}))
		ApplySupply(c, big.NewInt(100), big.NewInt(20), false)
		st := EvaluateClaimer(ClaimerInput{Tier: TierV1, Condition: c, Wallet: wallet, Now: now})
		assert.Equal(t, types.ClaimStateOK, st.State)
		assert.Equal(t, int64(3), st.AvailableQuantity.Int64())
		assert.Nil(t, st.WalletClaimed)
	})

	t.Run("集合售罄优先于暂停", func(t *testing.T) {
		c := FromConditionV0(nil, conditionV0(0, 0, 3, common.Hash{}))
		ApplySupply(c, big.NewInt(5), big.NewInt(5), false)
		st := EvaluateClaimer(ClaimerInput{Tier: TierV1, Condition: c, Now: now})
		assert.Equal(t, types.ClaimStateNoTokenSupply, st.State)
		assert.Equal(t, 0, st.AvailableQuantity.Sign())
	})

	t.Run("暂停", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(0, 0, 1, common.Hash{}))
		ApplySupply(c, nil, nil, false)
		st := EvaluateClaimer(ClaimerInput{Tier: TierV2, Condition: c, Now: now, WalletClaimed: big.NewInt(0)})
		assert.Equal(t, types.ClaimStatePaused, st.State)
	})

	t.Run("V2 公开上限为 0 时要求白名单", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(10, 0, 0, common.HexToHash("0xab")))
		ApplySupply(c, nil, nil, false)
		st := EvaluateClaimer(ClaimerInput{Tier: TierV2, Condition: c, Now: now, WalletClaimed: big.NewInt(0)})
		assert.Equal(t, types.ClaimStateNotAllowlisted, st.State)

		public := FromConditionV2(nil, conditionV2(10, 0, 2, common.HexToHash("0xab")))
		assert.False(t, AllowlistRequired(TierV2, public))
		assert.True(t, AllowlistRequired(TierV1, FromConditionV0(nil, conditionV0(10, 0, 2, common.HexToHash("0xab")))))
	})

	t.Run("冷却中", func(t *testing.T) {
		c := FromConditionV0(nil, conditionV0(10, 0, 3, common.Hash{}))
		ApplySupply(c, nil, nil, false)
		next := now.Add(10 * time.Minute)
		st := EvaluateClaimer(ClaimerInput{
			Tier: TierV0, Condition: c, Now: now,
			LastClaimedAt: now.Add(-50 * time.Minute), NextValidClaimAt: next,
		})
		assert.Equal(t, types.ClaimStateMintingThrottled, st.State)
		assert.Equal(t, next, st.NextClaimTime)
	})

	t.Run("旧合约白名单只能领取一次", func(t *testing.T) {
		c := FromConditionV0(nil, conditionV0(10, 1, 3, common.HexToHash("0xab")))
		ApplySupply(c, nil, nil, false)
		proof := &types.AllowlistProof{QuantityLimitPerWallet: big.NewInt(5)}
		st := EvaluateClaimer(ClaimerInput{
			Tier: TierV1, Condition: c, Wallet: wallet, Now: now,
			LastClaimedAt: start.Add(time.Hour), Proof: proof, ProofValid: true,
		})
		assert.Equal(t, types.ClaimStateClaimedAllowlistAllowance, st.State)
		assert.True(t, st.Allowlisted)
		assert.Equal(t, 0, st.AvailableQuantity.Sign())

		fresh := EvaluateClaimer(ClaimerInput{
			Tier: TierV1, Condition: c, Wallet: wallet, Now: now,
			LastClaimedAt: start.Add(-time.Hour), Proof: proof, ProofValid: true,
		})
		assert.Equal(t, types.ClaimStateOK, fresh.State)
		assert.Equal(t, int64(3), fresh.AvailableQuantity.Int64())
	})

	t.Run("旧合约白名单条目不带数量时同样只能领取一次", func(t *testing.T) {
		c := FromConditionV0(nil, conditionV0(10, 1, 3, common.HexToHash("0xab")))
		ApplySupply(c, nil, nil, false)
		proof := &types.AllowlistProof{}
		st := EvaluateClaimer(ClaimerInput{
			Tier: TierV0, Condition: c, Wallet: wallet, Now: now,
			LastClaimedAt: start.Add(time.Hour), Proof: proof, ProofValid: true,
		})
		assert.True(t, st.Allowlisted)
		assert.Equal(t, types.ClaimStateClaimedWalletAllowance, st.State)
		assert.Equal(t, 0, st.AvailableQuantity.Sign())

		fresh := EvaluateClaimer(ClaimerInput{
			Tier: TierV0, Condition: c, Wallet: wallet, Now: now,
			LastClaimedAt: start.Add(-time.Hour), Proof: proof, ProofValid: true,
		})
		assert.Equal(t, types.ClaimStateOK, fresh.State)
		assert.Equal(t, int64(3), fresh.AvailableQuantity.Int64())
	})

	t.Run("阶段售罄", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(10, 10, 5, common.Hash{}))
		ApplySupply(c, nil, nil, false)
		st := EvaluateClaimer(ClaimerInput{Tier: TierV2, Condition: c, Now: now, WalletClaimed: big.NewInt(0)})
		assert.Equal(t, types.ClaimStateClaimedPhaseAllowance, st.State)
	})

	t.Run("钱包额度用尽", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(10, 2, 2, common.Hash{}))
		ApplySupply(c, nil, nil, false)
		st := EvaluateClaimer(ClaimerInput{Tier: TierV2, Condition: c, Wallet: wallet, Now: now, WalletClaimed: big.NewInt(2)})
		assert.Equal(t, types.ClaimStateClaimedWalletAllowance, st.State)
		require.NotNil(t, st.WalletClaimed)
		assert.Equal(t, int64(2), st.WalletClaimed.Int64())
	})

	t.Run("V2 白名单覆盖上限与价格", func(t *testing.T) {
		c := FromConditionV2(nil, conditionV2(10, 0, 1, common.HexToHash("0xab")))
		ApplySupply(c, nil, nil, false)
		token := common.HexToAddress("0x00000000000000000000000000000000000000cc")
		proof := &types.AllowlistProof{QuantityLimitPerWallet: big.NewInt(4), PricePerToken: big.NewInt(3), Currency: token}
		st := EvaluateClaimer(ClaimerInput{
			Tier: TierV2, Condition: c, Wallet: wallet, Now: now,
			WalletClaimed: big.NewInt(1), Proof: proof, ProofValid: true,
		})
		assert.Equal(t, types.ClaimStateOK, st.State)
		assert.Equal(t, int64(3), st.AvailableQuantity.Int64())
		assert.Equal(t, int64(3), st.PricePerToken.Int64())
		assert.Equal(t, token, st.Currency)
	})
}

func TestEffectivePriceAndValue(t *testing.T) {
	c := FromConditionV0(nil, conditionV0(10, 0, 1, common.HexToHash("0xab")))
	proof := &types.AllowlistProof{PricePerToken: big.NewInt(1), Currency: other}

	t.Run("旧版本不覆盖价格", func(t *testing.T) {
		price, currency := EffectivePrice(TierV1, c, proof, true)
		assert.Equal(t, int64(10), price.Int64())
		assert.Equal(t, types.NativeTokenAddress, currency)
	})

	t.Run("哨兵价格不覆盖", func(t *testing.T) {
		price, _ := EffectivePrice(TierV2, c, &types.AllowlistProof{PricePerToken: types.Unlimited()}, true)
		assert.Equal(t, int64(10), price.Int64())
	})

	t.Run("原生币种附带金额", func(t *testing.T) {
		assert.Equal(t, int64(30), ClaimValue(big.NewInt(10), types.NativeTokenAddress, big.NewInt(3)).Int64())
		assert.Nil(t, ClaimValue(big.NewInt(10), other, big.NewInt(3)))
	})
}
