package normalize

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weisyn/tokensdk/pkg/types"
)

func TestRemaining(t *testing.T) {
	t.Run("哨兵上限保持哨兵", func(t *testing.T) {
		r := Remaining(types.Unlimited(), big.NewInt(500))
		assert.True(t, types.IsUnlimited(r))
	})

	t.Run("普通上限", func(t *testing.T) {
		assert.Equal(t, int64(70), Remaining(big.NewInt(100), big.NewInt(30)).Int64())
	})

	t.Run("不会为负", func(t *testing.T) {
		assert.Equal(t, 0, Remaining(big.NewInt(10), big.NewInt(30)).Sign())
	})

	t.Run("nil 输入", func(t *testing.T) {
		assert.True(t, types.IsUnlimited(Remaining(nil, big.NewInt(1))))
		assert.Equal(t, int64(5), Remaining(big.NewInt(5), nil).Int64())
	})

	t.Run("不修改入参", func(t *testing.T) {
		limit := big.NewInt(9)
		_ = Remaining(limit, big.NewInt(4))
		assert.Equal(t, int64(9), limit.Int64())
		sentinel := types.Unlimited()
		r := Remaining(sentinel, nil)
		r.SetInt64(1)
		assert.True(t, types.IsUnlimited(sentinel))
	})

	t.Run("任意组合", func(t *testing.T) {
		for limit := int64(0); limit < 20; limit++ {
			for claimed := int64(0); claimed < 25; claimed++ {
				r := Remaining(big.NewInt(limit), big.NewInt(claimed))
				assert.GreaterOrEqual(t, r.Sign(), 0)
				if claimed <= limit {
					assert.Equal(t, limit-claimed, r.Int64())
				}
			}
		}
	})
}

func TestAddMin(t *testing.T) {
	t.Run("任一为哨兵", func(t *testing.T) {
		assert.True(t, types.IsUnlimited(Add(types.Unlimited(), big.NewInt(1))))
		assert.True(t, types.IsUnlimited(Add(big.NewInt(1), types.Unlimited())))
	})

	t.Run("溢出截断为哨兵", func(t *testing.T) {
		almost := new(big.Int).Sub(types.Unlimited(), big.NewInt(1))
		assert.True(t, types.IsUnlimited(Add(almost, big.NewInt(5))))
	})

	t.Run("普通相加", func(t *testing.T) {
		assert.Equal(t, int64(7), Add(big.NewInt(3), big.NewInt(4)).Int64())
	})

	t.Run("最小值", func(t *testing.T) {
		assert.Equal(t, int64(2), Min(types.Unlimited(), big.NewInt(9), nil, big.NewInt(2)).Int64())
		assert.True(t, types.IsUnlimited(Min()))
		assert.True(t, types.IsUnlimited(Min(nil, types.Unlimited())))
	})

	t.Run("截断负数", func(t *testing.T) {
		assert.Equal(t, 0, NonNegative(big.NewInt(-3)).Sign())
		assert.Equal(t, int64(3), NonNegative(big.NewInt(3)).Int64())
	})

	t.Run("零上限视为不限制", func(t *testing.T) {
		assert.True(t, types.IsUnlimited(OrUnlimited(big.NewInt(0))))
		assert.Equal(t, int64(8), OrUnlimited(big.NewInt(8)).Int64())
	})
}
