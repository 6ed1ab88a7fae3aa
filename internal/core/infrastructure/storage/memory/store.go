// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/allegro/bigcache/v3"

	memoryconfig "github.com/weisyn/tokensdk/internal/config/storage/memory"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/storage"
)

// Store 基于 BigCache 的 MemoryStore
//
// 条目按配置的生命周期窗口统一过期，不支持单键 TTL。
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
}

var _ storage.MemoryStore = (*Store)(nil)

// New 创建一个新的BigCache内存存储实例
func New(config *memoryconfig.Config, logger log.Logger) (*Store, error) {
	if config == nil {
		config = memoryconfig.New(nil)
	}
	bigCacheConfig := bigcache.DefaultConfig(config.GetLifeWindow())
	bigCacheConfig.MaxEntriesInWindow = config.GetMaxEntriesInWindow()
	bigCacheConfig.MaxEntrySize = config.GetMaxEntrySize()
	bigCacheConfig.Shards = config.GetShards()
	bigCacheConfig.CleanWindow = config.GetCleanWindow()
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}
	return &Store{
		cache:  cache,
		logger: logImpl.NewModuleLogger(logger, "memory"),
	}, nil
}

// Get 获取缓存值
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, false, fmt.Errorf("内存存储已关闭")
	}

	value, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

// Set 设置缓存值
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return fmt.Errorf("内存存储已关闭")
	}

	if err := s.cache.Set(key, value); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除指定键
func (s *Store) Delete(_ context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return fmt.Errorf("内存存储已关闭")
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

// Count 当前条目数
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, fmt.Errorf("内存存储已关闭")
	}
	return int64(s.cache.Len()), nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		s.logger.Debug("内存存储已关闭，跳过重复关闭")
		return nil
	}
	err := s.cache.Close()
	if err == nil {
		s.closed = true
	}
	return err
}
