package features

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/pkg/types"
)

// newIssue 发行
//
// 单代币合约优先使用 mintTo（Mintable721_V1），只有旧合约才回退到 mint；
// 多代币合约的 TokenID 为 NewTokenID() 时新建 token。
func newIssue(b *dispatch.Binding) *dispatch.WriteFeature[types.IssueArgs] {
	return dispatch.NewWrite(b, OpIssue, dispatch.Rules[types.IssueArgs]{
		TokenID: func(a types.IssueArgs) *big.Int { return a.TokenID },
		Validate: func(a types.IssueArgs) error {
			if a.To == (common.Address{}) {
				return invalid("发行接收地址不能为零地址")
			}
			if a.Amount != nil && a.Amount.Sign() <= 0 {
				return invalid("发行数量必须大于 0")
			}
			return nil
		},
	},
		dispatch.WriteBranch[types.IssueArgs]{
			Branch: dispatch.Branch{Key: keyNFT, When: nftOnly},
			Prepare: func(_ context.Context, inv *dispatch.Invocation, a types.IssueArgs) (*dispatch.Call, error) {
				if a.Amount != nil && a.Amount.Cmp(big.NewInt(1)) != 0 {
					return nil, invalid("单代币合约每次只能发行 1 个")
				}
				if inv.ID == catalog.Mintable721V0 {
					return &dispatch.Call{Method: "mint", Args: []interface{}{a.To, a.URI}}, nil
				}
				return &dispatch.Call{Method: "mintTo", Args: []interface{}{a.To, a.URI}}, nil
			},
		},
		dispatch.WriteBranch[types.IssueArgs]{
			Branch: dispatch.Branch{Key: keySFT, When: sftOnly},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.IssueArgs) (*dispatch.Call, error) {
				amount := bigOr(a.Amount, big.NewInt(1))
				return &dispatch.Call{Method: "mintTo", Args: []interface{}{a.To, a.TokenID, a.URI, amount}}, nil
			},
		},
	)
}
