// Package types provides token contract domain record definitions.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// TokenStandard 代币标准分类
//
// 由合约声明支持的标准标记接口推导，每个合约实例只计算一次。
type TokenStandard string

const (
	// StandardERC721 单代币（每个 token id 唯一）
	StandardERC721 TokenStandard = "ERC721"
	// StandardERC1155 多代币（调用需携带 token id）
	StandardERC1155 TokenStandard = "ERC1155"
)

// IsMultiToken 多代币标准的调用必须携带 token id
func (s TokenStandard) IsMultiToken() bool {
	return s == StandardERC1155
}

// String 实现 fmt.Stringer
func (s TokenStandard) String() string {
	return string(s)
}

// NativeTokenAddress 原生代币在 currency 字段中的占位地址
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// IsNativeToken 判断 currency 是否为原生代币
func IsNativeToken(currency common.Address) bool {
	return currency == NativeTokenAddress
}

// Unlimited 返回"无上限"哨兵值（uint256 最大值）的副本
func Unlimited() *big.Int {
	return new(big.Int).Set(math.MaxBig256)
}

// IsUnlimited 判断数值是否为"无上限"哨兵值
func IsUnlimited(v *big.Int) bool {
	return v != nil && v.Cmp(math.MaxBig256) == 0
}

// NewTokenID 多代币发行时表示"新建 token"的 token id
func NewTokenID() *big.Int {
	return Unlimited()
}
