package normalize

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/weisyn/tokensdk/pkg/types"
)

func TestRoyalty(t *testing.T) {
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	t.Run("元组形态", func(t *testing.T) {
		info := RoyaltyFromTuple(recipient, 500)
		assert.Equal(t, uint16(500), info.Bps)
		assert.Equal(t, 5.0, info.Percent())
		assert.Equal(t, uint16(types.MaxBps), RoyaltyFromTuple(recipient, 20_000).Bps)
	})

	t.Run("按售价推导", func(t *testing.T) {
		info := RoyaltyFromSalePrice(recipient, big.NewInt(250), big.NewInt(types.MaxBps))
		assert.Equal(t, uint16(250), info.Bps)
		assert.Equal(t, uint16(0), RoyaltyFromSalePrice(recipient, big.NewInt(1), big.NewInt(0)).Bps)
	})
}

func TestTransferWindow(t *testing.T) {
	t.Run("哨兵结束时间", func(t *testing.T) {
		w := TransferWindowFromRange(big.NewInt(100), types.Unlimited())
		assert.True(t, w.Unbounded)
		assert.True(t, w.Contains(time.Unix(1_000_000_000, 0)))
		assert.False(t, w.Contains(time.Unix(50, 0)))
	})

	t.Run("有限窗口", func(t *testing.T) {
		w := TransferWindowFromRange(big.NewInt(100), big.NewInt(200))
		assert.False(t, w.Unbounded)
		assert.True(t, w.Contains(time.Unix(150, 0)))
		assert.False(t, w.Contains(time.Unix(200, 0)))
	})

	t.Run("旧版本只有开始时间", func(t *testing.T) {
		w := TransferWindowFromStart(big.NewInt(100))
		assert.True(t, w.Unbounded)
		assert.Equal(t, int64(100), w.Start.Unix())
	})

	t.Run("编码往返", func(t *testing.T) {
		s, e := WindowBounds(types.TransferTimeWindow{Start: time.Unix(10, 0), Unbounded: true})
		assert.Equal(t, int64(10), s.Int64())
		assert.True(t, types.IsUnlimited(e))
		s, e = WindowBounds(types.TransferTimeWindow{End: time.Unix(20, 0)})
		assert.Equal(t, 0, s.Sign())
		assert.Equal(t, int64(20), e.Int64())
	})
}

func TestTerms(t *testing.T) {
	d := TermsFromDetails("ipfs://terms", 2, true)
	assert.Equal(t, types.TermsDetails{URI: "ipfs://terms", Version: 2, Activated: true}, d)
}
