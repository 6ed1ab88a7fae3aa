package transport

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoryconfig "github.com/weisyn/tokensdk/internal/config/storage/memory"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/tokensdk/pkg/types"
)

// fakeBackend 可控的节点替身
type fakeBackend struct {
	name  string
	err   error
	calls atomic.Int32
}

func (b *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	b.calls.Add(1)
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.name), nil
}

func (b *fakeBackend) BlockNumber(context.Context) (uint64, error) { return 1, b.err }

// revertError 模拟节点返回的 JSON-RPC 错误
type revertError struct{}

func (revertError) Error() string  { return "execution reverted" }
func (revertError) ErrorCode() int { return 3 }

func dialFakes(backends map[string]*fakeBackend) Dialer {
	return func(_ context.Context, rawurl string) (Backend, error) {
		b, ok := backends[rawurl]
		if !ok {
			return nil, fmt.Errorf("dial %s: connection refused", rawurl)
		}
		return b, nil
	}
}

func newFallback(t *testing.T, backends map[string]*fakeBackend, endpoints ...EndpointConfig) *FallbackClient {
	t.Helper()
	fc, err := NewFallbackClient(context.Background(), ClientConfig{Endpoints: endpoints}, dialFakes(backends), logImpl.NewNop())
	require.NoError(t, err)
	t.Cleanup(fc.Close)
	return fc
}

func TestFallbackClient(t *testing.T) {
	ctx := context.Background()

	t.Run("按优先级选择端点", func(t *testing.T) {
		primary, backup := &fakeBackend{name: "primary"}, &fakeBackend{name: "backup"}
		fc := newFallback(t, map[string]*fakeBackend{"http://a": primary, "http://b": backup},
			EndpointConfig{Name: "backup", Priority: 2, RPC: "http://b"},
			EndpointConfig{Name: "primary", Priority: 1, RPC: "http://a"},
		)
		out, err := fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "primary", string(out))
	})

	t.Run("连接错误切换到下一个端点", func(t *testing.T) {
		primary := &fakeBackend{name: "primary", err: errors.New("connection reset")}
		backup := &fakeBackend{name: "backup"}
		fc := newFallback(t, map[string]*fakeBackend{"http://a": primary, "http://b": backup},
			EndpointConfig{Name: "primary", Priority: 1, RPC: "http://a"},
			EndpointConfig{Name: "backup", Priority: 2, RPC: "http://b"},
		)
		out, err := fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "backup", string(out))
		assert.Equal(t, int32(1), primary.calls.Load())
	})

	t.Run("合约回滚不重试", func(t *testing.T) {
		primary := &fakeBackend{name: "primary", err: revertError{}}
		backup := &fakeBackend{name: "backup"}
		fc := newFallback(t, map[string]*fakeBackend{"http://a": primary, "http://b": backup},
			EndpointConfig{Name: "primary", Priority: 1, RPC: "http://a"},
			EndpointConfig{Name: "backup", Priority: 2, RPC: "http://b"},
		)
		_, err := fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		assert.ErrorIs(t, err, revertError{})
		assert.Zero(t, backup.calls.Load())
	})

	t.Run("无法连接的端点被跳过", func(t *testing.T) {
		only := &fakeBackend{name: "only"}
		fc := newFallback(t, map[string]*fakeBackend{"http://b": only},
			EndpointConfig{Name: "down", Priority: 1, RPC: "http://a"},
			EndpointConfig{Name: "only", Priority: 2, RPC: "http://b"},
		)
		out, err := fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "only", string(out))
	})

	t.Run("全部失败", func(t *testing.T) {
		_, err := NewFallbackClient(ctx, ClientConfig{}, nil, nil)
		assert.Error(t, err)

		down := &fakeBackend{name: "down", err: errors.New("timeout")}
		fc := newFallback(t, map[string]*fakeBackend{"http://a": down},
			EndpointConfig{Name: "down", RPC: "http://a"})
		_, err = fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		assert.ErrorContains(t, err, "all endpoints failed")
		assert.Equal(t, int32(1), down.calls.Load())
	})

	t.Run("单端点失败只调用一次且不等待", func(t *testing.T) {
		down := &fakeBackend{name: "down", err: errors.New("connection refused")}
		fc := newFallback(t, map[string]*fakeBackend{"http://a": down},
			EndpointConfig{Name: "down", RPC: "http://a"})

		begin := time.Now()
		_, err := fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, int32(1), down.calls.Load())
		assert.Less(t, time.Since(begin), 500*time.Millisecond)
	})

	t.Run("每个端点至多尝试一次", func(t *testing.T) {
		a := &fakeBackend{name: "a", err: errors.New("connection reset")}
		b := &fakeBackend{name: "b", err: errors.New("connection reset")}
		c := &fakeBackend{name: "c", err: errors.New("connection reset")}
		fc := newFallback(t, map[string]*fakeBackend{"http://a": a, "http://b": b, "http://c": c},
			EndpointConfig{Name: "a", Priority: 1, RPC: "http://a"},
			EndpointConfig{Name: "b", Priority: 2, RPC: "http://b"},
			EndpointConfig{Name: "c", Priority: 3, RPC: "http://c"},
		)
		_, err := fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		assert.ErrorContains(t, err, "all endpoints failed")
		assert.Equal(t, int32(1), a.calls.Load())
		assert.Equal(t, int32(1), b.calls.Load())
		assert.Equal(t, int32(1), c.calls.Load())
	})

	t.Run("尝试次数受 RetryAttempts 限制", func(t *testing.T) {
		a := &fakeBackend{name: "a", err: errors.New("connection reset")}
		b := &fakeBackend{name: "b"}
		fc, err := NewFallbackClient(ctx, ClientConfig{
			Endpoints: []EndpointConfig{
				{Name: "a", Priority: 1, RPC: "http://a"},
				{Name: "b", Priority: 2, RPC: "http://b"},
			},
			RetryAttempts: 1,
		}, dialFakes(map[string]*fakeBackend{"http://a": a, "http://b": b}), logImpl.NewNop())
		require.NoError(t, err)
		t.Cleanup(fc.Close)

		_, err = fc.CallContract(ctx, ethereum.CallMsg{}, nil)
		assert.ErrorContains(t, err, "all endpoints failed")
		assert.Zero(t, b.calls.Load())
	})
}

func TestHTTPFetcher(t *testing.T) {
	ctx := context.Background()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/ipfs/QmMeta/0":
			_, _ = w.Write([]byte(`{"name":"Drop"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	fetcher := NewHTTPFetcher(server.URL+"/ipfs", time.Second)

	t.Run("ipfs 地址改写到网关", func(t *testing.T) {
		target, err := fetcher.Resolve("ipfs://QmMeta/0")
		require.NoError(t, err)
		assert.Equal(t, server.URL+"/ipfs/QmMeta/0", target)

		body, err := fetcher.Fetch(ctx, "ipfs://QmMeta/0")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Drop"}`, string(body))
	})

	t.Run("非 2xx 状态", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, server.URL+"/missing.json")
		assert.ErrorContains(t, err, "http status 404")
	})

	t.Run("不支持的协议", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, "ar://tx")
		assert.Error(t, err)
	})

	t.Run("缓存只请求一次", func(t *testing.T) {
		store, err := memory.New(memoryconfig.New(nil), logImpl.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		cached := NewCachingFetcher(fetcher, store, logImpl.NewNop())
		before := hits.Load()
		for i := 0; i < 3; i++ {
			body, err := cached.Fetch(ctx, "ipfs://QmMeta/0")
			require.NoError(t, err)
			assert.JSONEq(t, `{"name":"Drop"}`, string(body))
		}
		assert.Equal(t, before+1, hits.Load())

		_, err = cached.Fetch(ctx, server.URL+"/missing.json")
		assert.Error(t, err)
		_, ok, _ := store.Get(ctx, server.URL+"/missing.json")
		assert.False(t, ok)
	})
}

func TestKeyedSigner(t *testing.T) {
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	// 目标合约只有一条 STOP 指令，可接收任意调用与转账
	to := common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	eoa := common.HexToAddress("0x0000000000000000000000000000000000000e0a")
	sim := simulated.NewBackend(gethtypes.GenesisAlloc{
		from: {Balance: big.NewInt(1e18)},
		to:   {Code: []byte{0x00}, Balance: big.NewInt(0)},
	})
	t.Cleanup(func() { _ = sim.Close() })
	client := sim.Client()
	chainID, err := client.ChainID(ctx)
	require.NoError(t, err)

	signer, err := NewKeyedSigner(key, chainID, client)
	require.NoError(t, err)
	assert.Equal(t, from, signer.Address())

	req := &types.TransactionRequest{To: to, Value: big.NewInt(1_000)}

	gas, err := signer.EstimateGas(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, uint64(21_000), gas)

	tx, err := signer.SendTransaction(ctx, req)
	require.NoError(t, err)
	sim.Commit()

	receipt, err := client.TransactionReceipt(ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, gethtypes.ReceiptStatusSuccessful, receipt.Status)

	balance, err := client.BalanceAt(ctx, to, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), balance.Int64())

	// 无代码地址无法估算合约调用的 gas
	_, err = signer.SendTransaction(ctx, &types.TransactionRequest{To: eoa, Value: big.NewInt(1)})
	assert.ErrorIs(t, err, bind.ErrNoCode)

	_, err = NewSignerFromHex("not-a-key", chainID, client)
	assert.Error(t, err)
}
