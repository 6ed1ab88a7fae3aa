package features

import (
	"context"
	"math/big"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/internal/core/capability/normalize"
	"github.com/weisyn/tokensdk/pkg/types"
)

// TransferWindow 可转让时间窗口能力
type TransferWindow struct {
	Get *dispatch.ReadFeature[types.TransferWindowArgs, types.TransferTimeWindow]
	Set *dispatch.WriteFeature[types.SetTransferWindowArgs]
}

func newTransferWindow(b *dispatch.Binding) *TransferWindow {
	return &TransferWindow{
		Get: newGetTransferWindow(b),
		Set: newSetTransferWindow(b),
	}
}

func newGetTransferWindow(b *dispatch.Binding) *dispatch.ReadFeature[types.TransferWindowArgs, types.TransferTimeWindow] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, a types.TransferWindowArgs) (*dispatch.Call, error) {
		switch {
		case inv.Key == keySFT:
			return &dispatch.Call{Method: "getTransferTimeWindow", Args: []interface{}{a.TokenID}}, nil
		case inv.ID == catalog.TransferWindowV0:
			return &dispatch.Call{Method: "tradingStartTime"}, nil
		default:
			return &dispatch.Call{Method: "getTransferTimeWindow"}, nil
		}
	}
	run := func(ctx context.Context, inv *dispatch.Invocation, a types.TransferWindowArgs) (types.TransferTimeWindow, error) {
		call, _ := prepare(ctx, inv, a)
		out, err := inv.Read(ctx, call.Method, call.Args...)
		if err != nil {
			return types.TransferTimeWindow{}, err
		}
		start, err := decodeValue[*big.Int](call.Method, out, 0)
		if err != nil {
			return types.TransferTimeWindow{}, err
		}
		if call.Method == "tradingStartTime" {
			return normalize.TransferWindowFromStart(start), nil
		}
		end, err := decodeValue[*big.Int](call.Method, out, 1)
		if err != nil {
			return types.TransferTimeWindow{}, err
		}
		return normalize.TransferWindowFromRange(start, end), nil
	}
	return dispatch.NewRead(b, OpTransferWindow, dispatch.Rules[types.TransferWindowArgs]{
		TokenID: func(a types.TransferWindowArgs) *big.Int { return a.TokenID },
	},
		dispatch.ReadBranch[types.TransferWindowArgs, types.TransferTimeWindow]{Branch: dispatch.Branch{Key: keyNFT, When: nftOnly}, Prepare: prepare, Run: run},
		dispatch.ReadBranch[types.TransferWindowArgs, types.TransferTimeWindow]{Branch: dispatch.Branch{Key: keySFT, When: sftOnly}, Prepare: prepare, Run: run},
	)
}

func newSetTransferWindow(b *dispatch.Binding) *dispatch.WriteFeature[types.SetTransferWindowArgs] {
	return dispatch.NewWrite(b, OpSetTransferWindow, dispatch.Rules[types.SetTransferWindowArgs]{
		TokenID: func(a types.SetTransferWindowArgs) *big.Int { return a.TokenID },
		Validate: func(a types.SetTransferWindowArgs) error {
			if !a.Window.Unbounded && !a.Window.Start.Before(a.Window.End) {
				return invalid("转让窗口开始时间必须早于结束时间")
			}
			return nil
		},
	},
		dispatch.WriteBranch[types.SetTransferWindowArgs]{
			Branch: dispatch.Branch{Key: keyNFT, When: nftOnly},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.SetTransferWindowArgs) (*dispatch.Call, error) {
				start, end := normalize.WindowBounds(a.Window)
				return &dispatch.Call{Method: "setTransferTimeWindow", Args: []interface{}{start, end}}, nil
			},
		},
		dispatch.WriteBranch[types.SetTransferWindowArgs]{
			Branch: dispatch.Branch{Key: keySFT, When: sftOnly},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.SetTransferWindowArgs) (*dispatch.Call, error) {
				start, end := normalize.WindowBounds(a.Window)
				return &dispatch.Call{Method: "setTransferTimeWindow", Args: []interface{}{a.TokenID, start, end}}, nil
			},
		},
	)
}
