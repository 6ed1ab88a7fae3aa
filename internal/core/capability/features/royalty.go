package features

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/internal/core/capability/normalize"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Royalty 版税能力
type Royalty struct {
	GetDefault *dispatch.ReadFeature[types.NoArgs, types.RoyaltyInfo]
	SetDefault *dispatch.WriteFeature[types.SetRoyaltyArgs]
	GetToken   *dispatch.ReadFeature[types.TokenRoyaltyArgs, types.RoyaltyInfo]
	SetToken   *dispatch.WriteFeature[types.SetRoyaltyArgs]
}

func newRoyalty(b *dispatch.Binding) *Royalty {
	return &Royalty{
		GetDefault: newGetDefaultRoyalty(b),
		SetDefault: newSetDefaultRoyalty(b),
		GetToken:   newGetTokenRoyalty(b),
		SetToken:   newSetTokenRoyalty(b),
	}
}

func decodeRoyaltyTuple(method string, out []interface{}) (types.RoyaltyInfo, error) {
	recipient, err := decodeValue[common.Address](method, out, 0)
	if err != nil {
		return types.RoyaltyInfo{}, err
	}
	bps, err := decodeValue[uint16](method, out, 1)
	if err != nil {
		return types.RoyaltyInfo{}, err
	}
	return normalize.RoyaltyFromTuple(recipient, bps), nil
}

func validateRoyalty(a types.SetRoyaltyArgs) error {
	if a.Bps > types.MaxBps {
		return invalid("版税基点 %d 超过上限 %d", a.Bps, types.MaxBps)
	}
	return nil
}

func newGetDefaultRoyalty(b *dispatch.Binding) *dispatch.ReadFeature[types.NoArgs, types.RoyaltyInfo] {
	return dispatch.NewRead(b, OpDefaultRoyalty, dispatch.Rules[types.NoArgs]{},
		dispatch.ReadBranch[types.NoArgs, types.RoyaltyInfo]{
			Branch: dispatch.Branch{Key: keyAny},
			Prepare: func(context.Context, *dispatch.Invocation, types.NoArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "getDefaultRoyaltyInfo"}, nil
			},
			Run: func(ctx context.Context, inv *dispatch.Invocation, _ types.NoArgs) (types.RoyaltyInfo, error) {
				out, err := inv.Read(ctx, "getDefaultRoyaltyInfo")
				if err != nil {
					return types.RoyaltyInfo{}, err
				}
				return decodeRoyaltyTuple("getDefaultRoyaltyInfo", out)
			},
		},
	)
}

func newSetDefaultRoyalty(b *dispatch.Binding) *dispatch.WriteFeature[types.SetRoyaltyArgs] {
	return dispatch.NewWrite(b, OpDefaultRoyalty, dispatch.Rules[types.SetRoyaltyArgs]{
		Validate: func(a types.SetRoyaltyArgs) error {
			if a.TokenID != nil {
				return invalid("默认版税不接受 token id，请使用单 token 版税")
			}
			return validateRoyalty(a)
		},
	},
		dispatch.WriteBranch[types.SetRoyaltyArgs]{
			Branch: dispatch.Branch{Key: keyAny},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.SetRoyaltyArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "setDefaultRoyaltyInfo", Args: []interface{}{a.Recipient, big.NewInt(int64(a.Bps))}}, nil
			},
		},
	)
}

// newGetTokenRoyalty 单 token 版税
//
// 旧版本没有单 token 查询，回退到所有版本都实现但从未声明的 royaltyInfo(tokenId, salePrice)。
func newGetTokenRoyalty(b *dispatch.Binding) *dispatch.ReadFeature[types.TokenRoyaltyArgs, types.RoyaltyInfo] {
	salePrice := big.NewInt(types.MaxBps)
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.TokenRoyaltyArgs) (*dispatch.Call, error) {
		if inv.ID == catalog.ERC2981 {
			return &dispatch.Call{Method: "royaltyInfo", Args: []interface{}{a.TokenID, salePrice}}, nil
		}
		return &dispatch.Call{Method: "getRoyaltyInfoForToken", Args: []interface{}{a.TokenID}}, nil
	}
	return dispatch.NewRead(b, OpTokenRoyalty, dispatch.Rules[types.TokenRoyaltyArgs]{
		Validate: func(a types.TokenRoyaltyArgs) error {
			if a.TokenID == nil {
				return invalid("单 token 版税查询需要 token id")
			}
			return nil
		},
	},
		dispatch.ReadBranch[types.TokenRoyaltyArgs, types.RoyaltyInfo]{
			Branch:  dispatch.Branch{Key: keyV1},
			Prepare: prepare,
			Run: func(ctx context.Context, inv *dispatch.Invocation, a types.TokenRoyaltyArgs) (types.RoyaltyInfo, error) {
				out, err := inv.Read(ctx, "getRoyaltyInfoForToken", a.TokenID)
				if err != nil {
					return types.RoyaltyInfo{}, err
				}
				return decodeRoyaltyTuple("getRoyaltyInfoForToken", out)
			},
		},
		dispatch.ReadBranch[types.TokenRoyaltyArgs, types.RoyaltyInfo]{
			Branch:  dispatch.Branch{Fallback: catalog.ERC2981},
			Prepare: prepare,
			Run: func(ctx context.Context, inv *dispatch.Invocation, a types.TokenRoyaltyArgs) (types.RoyaltyInfo, error) {
				out, err := inv.Read(ctx, "royaltyInfo", a.TokenID, salePrice)
				if err != nil {
					return types.RoyaltyInfo{}, err
				}
				receiver, err := decodeValue[common.Address]("royaltyInfo", out, 0)
				if err != nil {
					return types.RoyaltyInfo{}, err
				}
				amount, err := decodeValue[*big.Int]("royaltyInfo", out, 1)
				if err != nil {
					return types.RoyaltyInfo{}, err
				}
				return normalize.RoyaltyFromSalePrice(receiver, amount, salePrice), nil
			},
		},
	)
}

func newSetTokenRoyalty(b *dispatch.Binding) *dispatch.WriteFeature[types.SetRoyaltyArgs] {
	return dispatch.NewWrite(b, OpTokenRoyalty, dispatch.Rules[types.SetRoyaltyArgs]{
		Validate: func(a types.SetRoyaltyArgs) error {
			if a.TokenID == nil {
				return invalid("单 token 版税设置需要 token id")
			}
			return validateRoyalty(a)
		},
	},
		dispatch.WriteBranch[types.SetRoyaltyArgs]{
			Branch: dispatch.Branch{Key: keyV1},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.SetRoyaltyArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "setRoyaltyInfoForToken", Args: []interface{}{a.TokenID, a.Recipient, big.NewInt(int64(a.Bps))}}, nil
			},
		},
	)
}
