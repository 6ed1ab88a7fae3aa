package transport

import (
	"context"

	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/storage"
	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
)

// CachingFetcher 以 URI 为键缓存链下元数据文档，供同一进程内的多个合约实例共享
//
// 只缓存成功的响应；缓存读写失败时退化为直接获取。
type CachingFetcher struct {
	inner  sdktransport.MetadataFetcher
	store  storage.MemoryStore
	logger log.Logger
}

var _ sdktransport.MetadataFetcher = (*CachingFetcher)(nil)

// NewCachingFetcher 在 inner 之前加一层缓存
func NewCachingFetcher(inner sdktransport.MetadataFetcher, store storage.MemoryStore, logger log.Logger) *CachingFetcher {
	return &CachingFetcher{
		inner:  inner,
		store:  store,
		logger: logImpl.NewModuleLogger(logger, "metadata-cache"),
	}
}

// Fetch 实现 transport.MetadataFetcher
func (f *CachingFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if body, ok, err := f.store.Get(ctx, uri); err == nil && ok {
		return body, nil
	} else if err != nil {
		f.logger.Debugf("读取元数据缓存失败: uri=%s, err=%v", uri, err)
	}

	body, err := f.inner.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	if err := f.store.Set(ctx, uri, body); err != nil {
		f.logger.Debugf("写入元数据缓存失败: uri=%s, err=%v", uri, err)
	}
	return body, nil
}
