package normalize

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifyProof 校验排序对 keccak256 默克尔证明
func VerifyProof(proof []common.Hash, root, leaf common.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		if bytes.Compare(computed[:], sibling[:]) <= 0 {
			computed = crypto.Keccak256Hash(computed[:], sibling[:])
		} else {
			computed = crypto.Keccak256Hash(sibling[:], computed[:])
		}
	}
	return computed == root
}

// AllowlistLeaf 旧版本（V0/V1）白名单叶子：keccak256(abi.encodePacked(wallet, maxQuantity))
func AllowlistLeaf(wallet common.Address, maxQuantity *big.Int) common.Hash {
	return crypto.Keccak256Hash(wallet.Bytes(), word(maxQuantity))
}

// AllowlistLeafV2 V2 白名单叶子：keccak256(abi.encodePacked(wallet, quantityLimitPerWallet, pricePerToken, currency))
func AllowlistLeafV2(wallet common.Address, quantityLimit, price *big.Int, currency common.Address) common.Hash {
	return crypto.Keccak256Hash(wallet.Bytes(), word(quantityLimit), word(price), currency.Bytes())
}

// MerkleRoot 由叶子构建排序对默克尔树，返回根与每个叶子的证明（按输入顺序）
//
// 奇数层最后一个节点直接提升到上一层。
func MerkleRoot(leaves []common.Hash) (common.Hash, [][]common.Hash) {
	if len(leaves) == 0 {
		return common.Hash{}, nil
	}
	proofs := make([][]common.Hash, len(leaves))
	index := make([]int, len(leaves))
	for i := range index {
		index[i] = i
	}
	level := append([]common.Hash(nil), leaves...)
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			a, b := level[i], level[i+1]
			for leaf, pos := range index {
				switch pos {
				case i:
					proofs[leaf] = append(proofs[leaf], b)
				case i + 1:
					proofs[leaf] = append(proofs[leaf], a)
				}
			}
			if bytes.Compare(a[:], b[:]) <= 0 {
				next = append(next, crypto.Keccak256Hash(a[:], b[:]))
			} else {
				next = append(next, crypto.Keccak256Hash(b[:], a[:]))
			}
		}
		for leaf := range index {
			index[leaf] /= 2
		}
		level = next
	}
	return level[0], proofs
}

func word(v *big.Int) []byte {
	if v == nil {
		v = new(big.Int)
	}
	return math.PaddedBigBytes(v, 32)
}
