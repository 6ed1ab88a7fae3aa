package normalize

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/tokensdk/pkg/types"
)

// RoyaltyFromTuple 转换 (recipient, bps) 形态的版税
func RoyaltyFromTuple(recipient common.Address, bps uint16) types.RoyaltyInfo {
	if bps > types.MaxBps {
		bps = types.MaxBps
	}
	return types.RoyaltyInfo{Recipient: recipient, Bps: bps}
}

// RoyaltyFromSalePrice 由 royaltyInfo(tokenId, salePrice) 的应答推导基点
//
// salePrice 传入 MaxBps 时版税金额即基点。
func RoyaltyFromSalePrice(receiver common.Address, amount, salePrice *big.Int) types.RoyaltyInfo {
	if amount == nil || salePrice == nil || salePrice.Sign() == 0 {
		return types.RoyaltyInfo{Recipient: receiver}
	}
	bps := new(big.Int).Mul(amount, big.NewInt(types.MaxBps))
	bps.Quo(bps, salePrice)
	if bps.Cmp(big.NewInt(types.MaxBps)) > 0 {
		bps.SetInt64(types.MaxBps)
	}
	return types.RoyaltyInfo{Recipient: receiver, Bps: uint16(bps.Uint64())}
}

// TermsFromDetails 转换 getTermsDetails() 的应答
func TermsFromDetails(uri string, version uint8, activated bool) types.TermsDetails {
	return types.TermsDetails{URI: uri, Version: version, Activated: activated}
}

// TransferWindowFromRange 转换 (start, end) 形态的窗口；end 为哨兵时无结束时间
func TransferWindowFromRange(start, end *big.Int) types.TransferTimeWindow {
	w := types.TransferTimeWindow{Start: unixTime(start)}
	if end == nil || types.IsUnlimited(end) {
		w.Unbounded = true
		return w
	}
	w.End = unixTime(end)
	return w
}

// TransferWindowFromStart 转换仅有开始时间的旧版本窗口
func TransferWindowFromStart(start *big.Int) types.TransferTimeWindow {
	return types.TransferTimeWindow{Start: unixTime(start), Unbounded: true}
}

// WindowBounds 把窗口编码为 (start, end)；无结束时间时 end 为哨兵
func WindowBounds(w types.TransferTimeWindow) (*big.Int, *big.Int) {
	start := big.NewInt(0)
	if !w.Start.IsZero() && w.Start.Unix() > 0 {
		start = big.NewInt(w.Start.Unix())
	}
	if w.Unbounded {
		return start, types.Unlimited()
	}
	return start, big.NewInt(w.End.Unix())
}

// SecondsToTime uint256 秒转换为 UTC 时间
func SecondsToTime(v *big.Int) time.Time {
	return unixTime(v)
}
