// Package normalize 把各历史版本解码出的结果转换为统一的领域记录
//
// 所有函数都是纯函数，不访问网络。数量上限使用 uint256 最大值作为"无上限"哨兵，
// 涉及哨兵的运算一律短路，避免溢出或回绕。
package normalize

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/weisyn/tokensdk/pkg/types"
)

// Remaining 上限减去已消耗数量
//
// 上限为哨兵（或 nil）时结果仍为哨兵；结果不小于 0。
func Remaining(limit, consumed *big.Int) *big.Int {
	if limit == nil || types.IsUnlimited(limit) {
		return types.Unlimited()
	}
	if consumed == nil {
		return new(big.Int).Set(limit)
	}
	r := new(big.Int).Sub(limit, consumed)
	if r.Sign() < 0 {
		return new(big.Int)
	}
	return r
}

// Add 两个可能为哨兵的数量相加；任一为哨兵或结果超出 uint256 时为哨兵
func Add(a, b *big.Int) *big.Int {
	if a == nil || b == nil || types.IsUnlimited(a) || types.IsUnlimited(b) {
		return types.Unlimited()
	}
	sum := new(big.Int).Add(a, b)
	if sum.Cmp(math.MaxBig256) > 0 {
		return types.Unlimited()
	}
	return sum
}

// Min 取最小值；nil 视为哨兵，空输入返回哨兵
func Min(values ...*big.Int) *big.Int {
	min := math.MaxBig256
	for _, v := range values {
		if v != nil && v.Cmp(min) < 0 {
			min = v
		}
	}
	return new(big.Int).Set(min)
}

// NonNegative 负数截断为 0，返回副本
func NonNegative(v *big.Int) *big.Int {
	if v == nil || v.Sign() < 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// OrUnlimited 零值上限按"不限制"处理（合约中 0 表示未设置上限的字段使用）
func OrUnlimited(limit *big.Int) *big.Int {
	if limit == nil || limit.Sign() == 0 {
		return types.Unlimited()
	}
	return new(big.Int).Set(limit)
}

func isZero(v *big.Int) bool {
	return v != nil && v.Sign() == 0
}
