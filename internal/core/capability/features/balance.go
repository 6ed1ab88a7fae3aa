package features

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/pkg/types"
)

func newBalanceOf(b *dispatch.Binding) *dispatch.ReadFeature[types.BalanceArgs, *big.Int] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.BalanceArgs) (*dispatch.Call, error) {
		if inv.Key == keySFT {
			return &dispatch.Call{Method: "balanceOf", Args: []interface{}{a.Owner, a.TokenID}}, nil
		}
		return &dispatch.Call{Method: "balanceOf", Args: []interface{}{a.Owner}}, nil
	}
	run := func(ctx context.Context, inv *dispatch.Invocation, a types.BalanceArgs) (*big.Int, error) {
		call, _ := prepare(ctx, inv, a)
		out, err := inv.Read(ctx, call.Method, call.Args...)
		if err != nil {
			return nil, err
		}
		return decodeValue[*big.Int](call.Method, out, 0)
	}
	return dispatch.NewRead(b, OpBalanceOf, dispatch.Rules[types.BalanceArgs]{
		TokenID: func(a types.BalanceArgs) *big.Int { return a.TokenID },
		Validate: func(a types.BalanceArgs) error {
			if a.Owner == (common.Address{}) {
				return invalid("余额查询地址不能为零地址")
			}
			return nil
		},
	},
		dispatch.ReadBranch[types.BalanceArgs, *big.Int]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare, Run: run},
		dispatch.ReadBranch[types.BalanceArgs, *big.Int]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare, Run: run},
	)
}
