package features

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	"github.com/weisyn/tokensdk/internal/core/capability/normalize"
	"github.com/weisyn/tokensdk/pkg/types"
)

// Terms 条款能力
type Terms struct {
	Get         *dispatch.ReadFeature[types.NoArgs, types.TermsDetails]
	HasAccepted *dispatch.ReadFeature[types.HasAcceptedTermsArgs, bool]
	Accept      *dispatch.WriteFeature[types.NoArgs]
}

func newTerms(b *dispatch.Binding) *Terms {
	return &Terms{
		Get:         newGetTerms(b),
		HasAccepted: newHasAcceptedTerms(b),
		Accept:      newAcceptTerms(b),
	}
}

// readTerms 按版本读取条款；V1 的三个字段分别读取
func readTerms(ctx context.Context, inv *dispatch.Invocation) (types.TermsDetails, error) {
	if inv.Key == keyV2 {
		out, err := inv.Read(ctx, "getTermsDetails")
		if err != nil {
			return types.TermsDetails{}, err
		}
		uri, err := decodeValue[string]("getTermsDetails", out, 0)
		if err != nil {
			return types.TermsDetails{}, err
		}
		version, err := decodeValue[uint8]("getTermsDetails", out, 1)
		if err != nil {
			return types.TermsDetails{}, err
		}
		activated, err := decodeValue[bool]("getTermsDetails", out, 2)
		if err != nil {
			return types.TermsDetails{}, err
		}
		return normalize.TermsFromDetails(uri, version, activated), nil
	}

	out, err := inv.Read(ctx, "terms")
	if err != nil {
		return types.TermsDetails{}, err
	}
	uri, err := decodeValue[string]("terms", out, 0)
	if err != nil {
		return types.TermsDetails{}, err
	}
	if out, err = inv.Read(ctx, "termsVersion"); err != nil {
		return types.TermsDetails{}, err
	}
	version, err := decodeValue[uint8]("termsVersion", out, 0)
	if err != nil {
		return types.TermsDetails{}, err
	}
	if out, err = inv.Read(ctx, "termsActivated"); err != nil {
		return types.TermsDetails{}, err
	}
	activated, err := decodeValue[bool]("termsActivated", out, 0)
	if err != nil {
		return types.TermsDetails{}, err
	}
	return normalize.TermsFromDetails(uri, version, activated), nil
}

func newGetTerms(b *dispatch.Binding) *dispatch.ReadFeature[types.NoArgs, types.TermsDetails] {
	prepare := func(_ context.Context, inv *dispatch.Invocation, _ types.NoArgs) (*dispatch.Call, error) {
		if inv.Key == keyV2 {
			return &dispatch.Call{Method: "getTermsDetails"}, nil
		}
		return &dispatch.Call{Method: "terms"}, nil
	}
	run := func(ctx context.Context, inv *dispatch.Invocation, _ types.NoArgs) (types.TermsDetails, error) {
		return readTerms(ctx, inv)
	}
	return dispatch.NewRead(b, OpTerms, dispatch.Rules[types.NoArgs]{},
		dispatch.ReadBranch[types.NoArgs, types.TermsDetails]{Branch: dispatch.Branch{Key: keyV2}, Prepare: prepare, Run: run},
		dispatch.ReadBranch[types.NoArgs, types.TermsDetails]{Branch: dispatch.Branch{Key: keyV1}, Prepare: prepare, Run: run},
	)
}

// newHasAcceptedTerms V2 按当前条款版本查询，V1 只有单一版本
func newHasAcceptedTerms(b *dispatch.Binding) *dispatch.ReadFeature[types.HasAcceptedTermsArgs, bool] {
	return dispatch.NewRead(b, OpTerms, dispatch.Rules[types.HasAcceptedTermsArgs]{
		Validate: func(a types.HasAcceptedTermsArgs) error {
			if a.Account == (common.Address{}) {
				return invalid("查询地址不能为零地址")
			}
			return nil
		},
	},
		dispatch.ReadBranch[types.HasAcceptedTermsArgs, bool]{
			Branch: dispatch.Branch{Key: keyV2},
			Prepare: func(context.Context, *dispatch.Invocation, types.HasAcceptedTermsArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "getTermsDetails"}, nil
			},
			Run: func(ctx context.Context, inv *dispatch.Invocation, a types.HasAcceptedTermsArgs) (bool, error) {
				details, err := readTerms(ctx, inv)
				if err != nil {
					return false, err
				}
				out, err := inv.Read(ctx, "hasAcceptedTerms", a.Account, details.Version)
				if err != nil {
					return false, err
				}
				return decodeValue[bool]("hasAcceptedTerms", out, 0)
			},
		},
		dispatch.ReadBranch[types.HasAcceptedTermsArgs, bool]{
			Branch: dispatch.Branch{Key: keyV1},
			Prepare: func(_ context.Context, _ *dispatch.Invocation, a types.HasAcceptedTermsArgs) (*dispatch.Call, error) {
				return &dispatch.Call{Method: "hasAcceptedTerms", Args: []interface{}{a.Account}}, nil
			},
			Run: func(ctx context.Context, inv *dispatch.Invocation, a types.HasAcceptedTermsArgs) (bool, error) {
				out, err := inv.Read(ctx, "hasAcceptedTerms", a.Account)
				if err != nil {
					return false, err
				}
				return decodeValue[bool]("hasAcceptedTerms", out, 0)
			},
		},
	)
}

func newAcceptTerms(b *dispatch.Binding) *dispatch.WriteFeature[types.NoArgs] {
	prepare := func(context.Context, *dispatch.Invocation, types.NoArgs) (*dispatch.Call, error) {
		return &dispatch.Call{Method: "acceptTerms"}, nil
	}
	return dispatch.NewWrite(b, OpTerms, dispatch.Rules[types.NoArgs]{},
		dispatch.WriteBranch[types.NoArgs]{Branch: dispatch.Branch{Key: keyV2}, Prepare: prepare},
		dispatch.WriteBranch[types.NoArgs]{Branch: dispatch.Branch{Key: keyV1}, Prepare: prepare},
	)
}
