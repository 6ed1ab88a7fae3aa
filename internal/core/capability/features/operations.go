// Package features 定义具体的逻辑操作及其各版本的编码、解码与归一化
package features

import (
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/cover"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/pkg/types"
)

// 分区键
const (
	keyNFT = "nft"
	keySFT = "sft"
	keyAny = "any"
	keyV0  = "v0"
	keyV1  = "v1"
	keyV2  = "v2"
)

// 逻辑操作定义；覆盖不完整时在包初始化阶段 panic
var (
	OpBalanceOf = dispatch.MustDefine("balanceOf",
		[]catalog.ID{catalog.ERC721A, catalog.ERC721, catalog.ERC1155},
		[]cover.Partition{
			{Key: keyNFT, IDs: []catalog.ID{catalog.ERC721A, catalog.ERC721}},
			{Key: keySFT, IDs: []catalog.ID{catalog.ERC1155}},
		}, dispatch.TokenScoped())

	OpClaimConditions = dispatch.MustDefine("claimConditions",
		[]catalog.ID{
			catalog.DropMultiPhaseV2, catalog.DropSinglePhaseV2,
			catalog.DropMultiPhaseV1, catalog.DropSinglePhaseV1,
			catalog.DropMultiPhaseV0, catalog.DropSinglePhaseV0,
			catalog.DropMultiPhase1155V2, catalog.DropSinglePhase1155V2,
			catalog.DropMultiPhase1155V1, catalog.DropSinglePhase1155V1,
			catalog.DropMultiPhase1155V0,
		},
		[]cover.Partition{
			{Key: keyNFT, IDs: []catalog.ID{
				catalog.DropMultiPhaseV2, catalog.DropSinglePhaseV2,
				catalog.DropMultiPhaseV1, catalog.DropSinglePhaseV1,
				catalog.DropMultiPhaseV0, catalog.DropSinglePhaseV0,
			}},
			{Key: keySFT, IDs: []catalog.ID{
				catalog.DropMultiPhase1155V2, catalog.DropSinglePhase1155V2,
				catalog.DropMultiPhase1155V1, catalog.DropSinglePhase1155V1,
				catalog.DropMultiPhase1155V0,
			}},
		}, dispatch.TokenScoped())

	OpSetClaimConditions = dispatch.MustDefine("claimConditions.set",
		[]catalog.ID{
			catalog.DropMultiPhaseV2, catalog.DropSinglePhaseV2,
			catalog.DropMultiPhase1155V2, catalog.DropSinglePhase1155V2,
		},
		[]cover.Partition{
			{Key: keyNFT, IDs: []catalog.ID{catalog.DropMultiPhaseV2, catalog.DropSinglePhaseV2}},
			{Key: keySFT, IDs: []catalog.ID{catalog.DropMultiPhase1155V2, catalog.DropSinglePhase1155V2}},
		}, dispatch.TokenScoped())

	OpIssue = dispatch.MustDefine("issue",
		[]catalog.ID{catalog.Mintable721V1, catalog.Mintable721V0, catalog.Mintable1155V1},
		[]cover.Partition{
			{Key: keyNFT, IDs: []catalog.ID{catalog.Mintable721V1, catalog.Mintable721V0}},
			{Key: keySFT, IDs: []catalog.ID{catalog.Mintable1155V1}},
		}, dispatch.TokenScoped())

	OpDefaultRoyalty = dispatch.MustDefine("royalty.default",
		[]catalog.ID{catalog.RoyaltyV1, catalog.RoyaltyV0},
		[]cover.Partition{
			{Key: keyAny, IDs: []catalog.ID{catalog.RoyaltyV1, catalog.RoyaltyV0}},
		})

	OpTokenRoyalty = dispatch.MustDefine("royalty.token",
		[]catalog.ID{catalog.RoyaltyV1, catalog.RoyaltyV0},
		[]cover.Partition{
			{Key: keyV1, IDs: []catalog.ID{catalog.RoyaltyV1}},
			{Key: keyV0, IDs: []catalog.ID{catalog.RoyaltyV0}},
		})

	OpTerms = dispatch.MustDefine("terms",
		[]catalog.ID{catalog.TermsV2, catalog.TermsV1},
		[]cover.Partition{
			{Key: keyV2, IDs: []catalog.ID{catalog.TermsV2}},
			{Key: keyV1, IDs: []catalog.ID{catalog.TermsV1}},
		})

	OpTransferWindow = dispatch.MustDefine("transferWindow",
		[]catalog.ID{catalog.TransferWindowV1, catalog.TransferWindowV0, catalog.TransferWindow1155V1},
		[]cover.Partition{
			{Key: keyNFT, IDs: []catalog.ID{catalog.TransferWindowV1, catalog.TransferWindowV0}},
			{Key: keySFT, IDs: []catalog.ID{catalog.TransferWindow1155V1}},
		}, dispatch.TokenScoped())

	OpSetTransferWindow = dispatch.MustDefine("transferWindow.set",
		[]catalog.ID{catalog.TransferWindowV1, catalog.TransferWindow1155V1},
		[]cover.Partition{
			{Key: keyNFT, IDs: []catalog.ID{catalog.TransferWindowV1}},
			{Key: keySFT, IDs: []catalog.ID{catalog.TransferWindow1155V1}},
		}, dispatch.TokenScoped())

	OpContractMetadata = dispatch.MustDefine("contractMetadata",
		[]catalog.ID{catalog.ContractMetadataV1},
		[]cover.Partition{
			{Key: keyV1, IDs: []catalog.ID{catalog.ContractMetadataV1}},
		})
)

var (
	nftOnly = dispatch.OnlyStandard(types.StandardERC721)
	sftOnly = dispatch.OnlyStandard(types.StandardERC1155)
)
