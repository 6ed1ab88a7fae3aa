package contract

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkconfig "github.com/weisyn/tokensdk/internal/config/sdk"
	"github.com/weisyn/tokensdk/internal/core/capability/capabilitytest"
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/types"
)

var (
	dropAddr = common.HexToAddress("0x00000000000000000000000000000000000d7090")
	owner    = common.HexToAddress("0x000000000000000000000000000000000000a11c")
)

func TestNewFactory(t *testing.T) {
	t.Run("缺少只读传输", func(t *testing.T) {
		_, err := NewFactory(FactoryConfig{})
		assert.Error(t, err)
	})

	t.Run("默认配置", func(t *testing.T) {
		f, err := NewFactory(FactoryConfig{Reader: capabilitytest.NewReader()})
		require.NoError(t, err)
		assert.False(t, f.config.IncludeExperimental())
	})
}

func TestContract(t *testing.T) {
	ctx := context.Background()

	t.Run("构造时不访问链，首次调用时发现版本", func(t *testing.T) {
		reader := capabilitytest.NewReader().
			Versions("ERC721", "ERC721A", "SomeFutureVersion_V9").
			Returns(catalog.ERC721A, "balanceOf", big.NewInt(7))
		f, err := NewFactory(FactoryConfig{Reader: reader})
		require.NoError(t, err)

		c := f.NewContract(dropAddr)
		assert.Equal(t, dropAddr, c.Address())
		assert.NotEmpty(t, c.InstanceID())
		assert.Zero(t, reader.CallCount())

		got, err := c.BalanceOf.Execute(ctx, types.BalanceArgs{Owner: owner}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.Int64())

		set, err := c.SupportedVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"ERC721", "ERC721A"}, set.Strings())
		// 版本发现只发生一次
		assert.Equal(t, []string{"getSupportedInterfaceVersions", "balanceOf"}, reader.Calls())
	})

	t.Run("显式声明版本时不读取链上自报版本", func(t *testing.T) {
		reader := capabilitytest.NewReader()
		f, err := NewFactory(FactoryConfig{Reader: reader})
		require.NoError(t, err)

		c := f.NewContract(dropAddr, WithDeclaredVersions("ERC1155"))
		std, err := c.Standard(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.StandardERC1155, std)
		assert.Zero(t, reader.CallCount())
	})

	t.Run("实验性版本按配置过滤", func(t *testing.T) {
		reader := capabilitytest.NewReader()
		declared := WithDeclaredVersions("ERC1155", "TransferWindow1155_V1")

		f, err := NewFactory(FactoryConfig{Reader: reader})
		require.NoError(t, err)
		ok, err := f.NewContract(dropAddr, declared).TransferWindow.Get.Supported(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		f, err = NewFactory(FactoryConfig{
			Reader: reader,
			Config: sdkconfig.New(&types.UserSDKConfig{IncludeExperimental: types.BoolPtr(true)}),
		})
		require.NoError(t, err)
		ok, err = f.NewContract(dropAddr, declared).TransferWindow.Get.Supported(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("无标准标记", func(t *testing.T) {
		f, err := NewFactory(FactoryConfig{Reader: capabilitytest.NewReader()})
		require.NoError(t, err)
		c := f.NewContract(dropAddr, WithDeclaredVersions("Royalty_V1"))
		_, err = c.Standard(ctx)
		assert.Equal(t, sdkerrors.KindEmptyTokenStandard, sdkerrors.KindOf(err))
	})

	t.Run("版本发现失败为链错误且不记忆", func(t *testing.T) {
		reader := capabilitytest.NewReader().Versions("ERC721")
		reader.Err = errors.New("connection refused")
		f, err := NewFactory(FactoryConfig{Reader: reader})
		require.NoError(t, err)
		c := f.NewContract(dropAddr)

		_, err = c.SupportedVersions(ctx)
		assert.Equal(t, sdkerrors.KindChainError, sdkerrors.KindOf(err))

		reader.Err = nil
		set, err := c.SupportedVersions(ctx)
		require.NoError(t, err)
		assert.True(t, set.Has(catalog.ERC721))
	})

	t.Run("全部操作的分区", func(t *testing.T) {
		f, err := NewFactory(FactoryConfig{Reader: capabilitytest.NewReader()})
		require.NoError(t, err)
		c := f.NewContract(dropAddr, WithDeclaredVersions("ERC721", "Royalty_V0", "Royalty_V1"))

		parts, err := c.Partitions(ctx)
		require.NoError(t, err)
		byName := make(map[string]bool, len(parts))
		for _, p := range parts {
			byName[p.Operation()] = p.Supported()
		}
		assert.True(t, byName["balanceOf"])
		assert.True(t, byName["royalty.token"])
		assert.False(t, byName["terms"])
	})
}
