package features

import (
	"math/big"

	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Features 某个合约实例上的全部能力
//
// 构造时不访问链；每个能力在首次调用时才触发版本解析，解析结果由 Binding 共享。
type Features struct {
	BalanceOf       *dispatch.ReadFeature[types.BalanceArgs, *big.Int]
	ClaimConditions *ClaimConditions
	Issue           *dispatch.WriteFeature[types.IssueArgs]
	Royalty         *Royalty
	Terms           *Terms
	TransferWindow  *TransferWindow
	Metadata        *Metadata
}

// New 在 Binding 上构建全部能力；fetcher 为 nil 时读取合约元数据返回 WEB_REQUEST_FAILED
func New(b *dispatch.Binding, fetcher transport.MetadataFetcher) *Features {
	return &Features{
		BalanceOf:       newBalanceOf(b),
		ClaimConditions: newClaimConditions(b),
		Issue:           newIssue(b),
		Royalty:         newRoyalty(b),
		Terms:           newTerms(b),
		TransferWindow:  newTransferWindow(b),
		Metadata:        newMetadata(b, fetcher),
	}
}
