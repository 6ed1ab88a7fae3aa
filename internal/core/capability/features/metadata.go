package features

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/interfaces/transport"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Metadata 合约级元数据能力
//
// 链下元数据首次成功获取后在实例内记忆，失败不记忆。
type Metadata struct {
	Get    *dispatch.ReadFeature[types.NoArgs, *types.ContractMetadata]
	SetURI *dispatch.WriteFeature[types.SetContractURIArgs]

	cache atomic.Pointer[types.ContractMetadata]
}

func newMetadata(b *dispatch.Binding, fetcher transport.MetadataFetcher) *Metadata {
	m := &Metadata{}
	m.Get = dispatch.NewRead(b, OpContractMetadata, dispatch.Rules[types.NoArgs]{},
		dispatch.ReadBranch[types.NoArgs, *types.ContractMetadata]{
			Branch: dispatch.Branch{Key: keyV1},
			Prepare: func(context.Context, *dispatch.Invocation, types.NoArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "contractURI"}, nil
			},
			Run: func(ctx context.Context, inv *dispatch.Invocation, _ types.NoArgs) (*types.ContractMetadata, error) {
				if cached := m.cache.Load(); cached != nil {
					return cached, nil
				}
				out, err := inv.Read(ctx, "contractURI")
				if err != nil {
					return nil, err
				}
				uri, err := decodeValue[string]("contractURI", out, 0)
				if err != nil {
					return nil, err
				}
				meta, err := fetchMetadata(ctx, fetcher, uri)
				if err != nil {
					return nil, err
				}
				m.cache.CompareAndSwap(nil, meta)
				return m.cache.Load(), nil
			},
		},
	)
	m.SetURI = dispatch.NewWrite(b, OpContractMetadata, dispatch.Rules[types.SetContractURIArgs]{
		Validate: func(a types.SetContractURIArgs) error {
			if strings.TrimSpace(a.URI) == "" {
				return invalid("合约元数据 URI 不能为空")
			}
			return nil
		},
	},
		dispatch.WriteBranch[types.SetContractURIArgs]{
			Branch: dispatch.Branch{Key: keyV1},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.SetContractURIArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "setContractURI", Args: []interface{}{a.URI}}, nil
			},
		},
	)
	return m
}

// fetchMetadata 获取并解析链下元数据文档；URI 为空时不发起请求
func fetchMetadata(ctx context.Context, fetcher transport.MetadataFetcher, uri string) (*types.ContractMetadata, error) {
	errCtx := map[string]interface{}{"uri": uri}
	if strings.TrimSpace(uri) == "" {
		return &types.ContractMetadata{}, nil
	}
	if fetcher == nil {
		return nil, sdkerrors.New(sdkerrors.KindWebRequestFailed, "未配置元数据获取器", errCtx)
	}
	body, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindWebRequestFailed, err, errCtx)
	}
	meta := &types.ContractMetadata{URI: uri}
	if err := json.Unmarshal(body, meta); err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindWebRequestFailed, err, errCtx)
	}
	if err := json.Unmarshal(body, &meta.Raw); err != nil {
		return nil, sdkerrors.Wrap(sdkerrors.KindWebRequestFailed, err, errCtx)
	}
	return meta, nil
}
