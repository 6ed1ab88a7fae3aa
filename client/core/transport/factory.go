// Package transport 提供基于 go-ethereum 的只读调用、签名与元数据获取实现
package transport

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
)

// Backend 单个节点的只读能力；*ethclient.Client 满足该接口
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Dialer 按地址建立节点连接
type Dialer func(ctx context.Context, rawurl string) (Backend, error)

// DialEthclient 使用 ethclient 建立连接
func DialEthclient(ctx context.Context, rawurl string) (Backend, error) {
	return ethclient.DialContext(ctx, rawurl)
}

// FallbackClient 支持故障转移的只读调用客户端
//
// 合约回滚等确定性错误直接返回，只有连接类错误才切换端点重试。
type FallbackClient struct {
	config    ClientConfig
	clients   []clientWithPriority
	current   int
	mu        sync.RWMutex
	logger    log.Logger
	closeCh   chan struct{}
	closeOnce sync.Once
}

var _ sdktransport.Reader = (*FallbackClient)(nil)

type clientWithPriority struct {
	name      string
	priority  int
	backend   Backend
	healthy   bool
	lastCheck time.Time
}

// NewFallbackClient 按配置连接全部端点
func NewFallbackClient(ctx context.Context, config ClientConfig, dial Dialer, logger log.Logger) (*FallbackClient, error) {
	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints configured")
	}
	if dial == nil {
		dial = DialEthclient
	}
	config.applyDefaults()

	fc := &FallbackClient{
		config:  config,
		clients: make([]clientWithPriority, 0, len(config.Endpoints)),
		logger:  logImpl.NewModuleLogger(logger, "transport"),
		closeCh: make(chan struct{}),
	}

	for _, ep := range config.Endpoints {
		if ep.RPC == "" {
			continue
		}
		backend, err := dial(ctx, ep.RPC)
		if err != nil {
			// 记录但不失败
			fc.logger.Warnf("连接端点失败: name=%s, err=%v", ep.Name, err)
			continue
		}
		fc.clients = append(fc.clients, clientWithPriority{
			name:     ep.Name,
			priority: ep.Priority,
			backend:  backend,
			healthy:  true,
		})
	}
	if len(fc.clients) == 0 {
		return nil, fmt.Errorf("no valid clients created")
	}

	sort.SliceStable(fc.clients, func(i, j int) bool { return fc.clients[i].priority < fc.clients[j].priority })

	if config.HealthCheckInterval > 0 {
		go fc.healthCheckLoop()
	}
	return fc, nil
}

// healthCheckLoop 健康检查循环
func (fc *FallbackClient) healthCheckLoop() {
	ticker := time.NewTicker(fc.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fc.checkAllClients()
		case <-fc.closeCh:
			return
		}
	}
}

// checkAllClients 以 eth_blockNumber 探测各端点
func (fc *FallbackClient) checkAllClients() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	for i := range fc.clients {
		_, err := fc.clients[i].backend.BlockNumber(ctx)
		fc.clients[i].healthy = err == nil
		fc.clients[i].lastCheck = time.Now()
	}
}

// pick 返回当前可用端点的下标
func (fc *FallbackClient) pick() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.current < len(fc.clients) && fc.clients[fc.current].healthy {
		return fc.current
	}
	for i, c := range fc.clients {
		if c.healthy {
			fc.current = i
			return i
		}
	}
	// 所有端点都不健康时从头再试
	for i := range fc.clients {
		fc.clients[i].healthy = true
	}
	fc.current = 0
	return 0
}

func (fc *FallbackClient) markUnhealthy(i int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if i < len(fc.clients) {
		fc.clients[i].healthy = false
	}
}

// tryWithFallback 从当前端点开始依次尝试，每个端点至多一次
//
// 只有连接类错误才切换到下一个端点；不等待、不在同一端点上重复调用。
func (fc *FallbackClient) tryWithFallback(ctx context.Context, op func(context.Context, Backend) error) error {
	var lastErr error

	start := fc.pick()
	attempts := fc.config.attempts(len(fc.clients))
	for n := 0; n < attempts; n++ {
		i := (start + n) % len(fc.clients)
		callCtx, cancel := context.WithTimeout(ctx, fc.config.Timeout)
		err := op(callCtx, fc.clients[i].backend)
		cancel()
		if err == nil {
			fc.setCurrent(i)
			return nil
		}
		if !retryable(ctx, err) {
			return err
		}

		lastErr = err
		fc.markUnhealthy(i)
		fc.logger.Debugf("端点调用失败，切换端点: name=%s, attempt=%d, err=%v", fc.clients[i].name, n+1, err)
	}

	return fmt.Errorf("all endpoints failed: %w", lastErr)
}

func (fc *FallbackClient) setCurrent(i int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.current = i
	fc.clients[i].healthy = true
}

// retryable 节点返回的 JSON-RPC 错误（含合约回滚）与调用方取消不重试
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var rpcErr rpc.Error
	return !errors.As(err, &rpcErr)
}

// CallContract 实现 transport.Reader
func (fc *FallbackClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var result []byte
	err := fc.tryWithFallback(ctx, func(ctx context.Context, b Backend) error {
		var e error
		result, e = b.CallContract(ctx, call, blockNumber)
		return e
	})
	return result, err
}

// BlockNumber 当前区块高度
func (fc *FallbackClient) BlockNumber(ctx context.Context) (uint64, error) {
	var result uint64
	err := fc.tryWithFallback(ctx, func(ctx context.Context, b Backend) error {
		var e error
		result, e = b.BlockNumber(ctx)
		return e
	})
	return result, err
}

// Close 停止健康检查并关闭连接
func (fc *FallbackClient) Close() {
	fc.closeOnce.Do(func() {
		close(fc.closeCh)
		fc.mu.Lock()
		defer fc.mu.Unlock()
		for _, c := range fc.clients {
			if closer, ok := c.backend.(interface{ Close() }); ok {
				closer.Close()
			}
		}
	})
}
