package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokensdk/client/core/contract"
	"github.com/weisyn/tokensdk/internal/core/capability/capabilitytest"
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
)

func TestCoversTable(t *testing.T) {
	table, failed := coversTable(catalog.Default())
	assert.Zero(t, failed)
	require.NotEmpty(t, table.Rows)

	seen := map[string]bool{}
	for _, row := range table.Rows {
		assert.Equal(t, "ok", row[4])
		seen[row[0]+"/"+row[2]] = true
	}
	assert.True(t, seen["balanceOf/nft"])
	assert.True(t, seen["balanceOf/sft"])
	assert.True(t, seen["royalty.token/v0"])
}

func TestEnvConfig(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		cfg, err := loadEnv()
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 15*time.Second, cfg.RPCTimeout)
	})

	t.Run("读取逗号分隔的端点", func(t *testing.T) {
		t.Setenv("TOKENSDK_RPC_URLS", "http://a:8545,http://b:8545")
		t.Setenv("TOKENSDK_INCLUDE_EXPERIMENTAL", "true")
		cfg, err := loadEnv()
		require.NoError(t, err)

		cc := cfg.clientConfig(nil)
		require.Len(t, cc.Endpoints, 2)
		assert.Equal(t, "http://b:8545", cc.Endpoints[1].RPC)
		assert.Equal(t, 1, cc.Endpoints[1].Priority)

		user, err := cfg.userConfig()
		require.NoError(t, err)
		assert.True(t, *user.IncludeExperimental)
		assert.Equal(t, "warn", *user.Log.Level)
	})

	t.Run("命令行端点优先", func(t *testing.T) {
		cfg := envConfig{RPCURLs: []string{"http://env:8545"}}
		cc := cfg.clientConfig([]string{"http://flag:8545"})
		require.Len(t, cc.Endpoints, 1)
		assert.Equal(t, "http://flag:8545", cc.Endpoints[0].RPC)
	})

	t.Run("配置文件中的日志级别不被默认值覆盖", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sdk.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"debug"}}`), 0600))
		user, err := envConfig{ConfigFile: path, LogLevel: "warn"}.userConfig()
		require.NoError(t, err)
		assert.Equal(t, "debug", *user.Log.Level)
	})
}

func TestInspectTable(t *testing.T) {
	ctx := context.Background()
	reader := capabilitytest.NewReader().Versions("ERC721", "Royalty_V1", "Unknown_V7")
	factory, err := contract.NewFactory(contract.FactoryConfig{Reader: reader})
	require.NoError(t, err)

	addr, err := parseAddress("0x00000000000000000000000000000000000d7090")
	require.NoError(t, err)
	table, err := inspectTable(ctx, factory.NewContract(addr))
	require.NoError(t, err)

	head := table.Rows[0]
	assert.Equal(t, "ERC721,Royalty_V1", head[1])
	assert.Equal(t, "ERC721", head[3])

	rows := map[string][]string{}
	for _, row := range table.Rows[1:] {
		rows[row[0]] = row
	}
	assert.Equal(t, "true", rows["royalty.token"][1])
	assert.Equal(t, "v1=Royalty_V1", rows["royalty.token"][2])
	assert.Equal(t, "false", rows["terms"][1])
	assert.Empty(t, rows["terms"][2])
}

func TestParseAddress(t *testing.T) {
	_, err := parseAddress("not-an-address")
	assert.Equal(t, sdkerrors.KindInvalidData, sdkerrors.KindOf(err))
}

func TestStartFactory(t *testing.T) {
	t.Run("未配置端点", func(t *testing.T) {
		envCfg = envConfig{}
		globalFlags = GlobalFlags{}
		_, _, err := startFactory(context.Background())
		assert.Error(t, err)
	})

	t.Run("依赖图可以组装并停止", func(t *testing.T) {
		// http 端点在首次请求前不建立连接
		envCfg = envConfig{LogLevel: "error", RPCTimeout: time.Second}
		globalFlags = GlobalFlags{RPCURLs: []string{"http://127.0.0.1:1"}}
		defer func() { globalFlags = GlobalFlags{} }()

		factory, stop, err := startFactory(context.Background())
		require.NoError(t, err)
		defer stop()

		c := factory.NewContract(common.HexToAddress("0x01"), contract.WithDeclaredVersions("ERC1155", "Terms_V2"))
		std, err := c.Standard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ERC1155", string(std))
	})
}
