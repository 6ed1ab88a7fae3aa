package features

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
)

// decodeTuple 把解码出的匿名结构体按字段名转换为 T
//
// abi.ConvertType 在字段不匹配时 panic，这里转换为 CHAIN_ERROR。
func decodeTuple[T any](method string, v interface{}) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = sdkerrors.New(sdkerrors.KindChainError,
				fmt.Sprintf("%s 返回的元组无法解码: %v", method, r),
				map[string]interface{}{"method": method})
		}
	}()
	converted := abi.ConvertType(v, new(T)).(*T)
	return *converted, nil
}

// decodeValue 取出第 i 个返回值并断言类型
func decodeValue[T any](method string, values []interface{}, i int) (T, error) {
	var zero T
	if i >= len(values) {
		return zero, malformed(method, values)
	}
	v, ok := values[i].(T)
	if !ok {
		return zero, malformed(method, values)
	}
	return v, nil
}

func malformed(method string, values []interface{}) error {
	return sdkerrors.New(sdkerrors.KindChainError,
		fmt.Sprintf("%s 返回值格式异常", method),
		map[string]interface{}{"method": method, "values": values})
}

func invalid(format string, args ...interface{}) error {
	return sdkerrors.Newf(sdkerrors.KindInvalidData, format, args...)
}

func hashesToWords(hashes []common.Hash) [][32]byte {
	out := make([][32]byte, len(hashes))
	for i, h := range hashes {
		out[i] = h
	}
	return out
}

func bigOr(v *big.Int, fallback *big.Int) *big.Int {
	if v == nil {
		return fallback
	}
	return v
}
