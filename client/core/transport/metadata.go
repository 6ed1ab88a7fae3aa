package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sdktransport "github.com/weisyn/tokensdk/pkg/interfaces/transport"
)

// DefaultIPFSGateway ipfs:// 地址默认改写到的网关
const DefaultIPFSGateway = "https://ipfs.io/ipfs/"

// maxMetadataBytes 元数据文档大小上限
const maxMetadataBytes = 1 << 20

// HTTPFetcher 通过 HTTP 获取链下元数据
type HTTPFetcher struct {
	gateway    string
	httpClient *http.Client
}

var _ sdktransport.MetadataFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 创建元数据获取器；gateway 为空时使用 DefaultIPFSGateway
func NewHTTPFetcher(gateway string, timeout time.Duration) *HTTPFetcher {
	if gateway == "" {
		gateway = DefaultIPFSGateway
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		gateway: gateway,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Resolve 把元数据 URI 转换为可请求的 HTTP 地址
func (f *HTTPFetcher) Resolve(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		path := strings.TrimPrefix(uri, "ipfs://")
		path = strings.TrimPrefix(path, "ipfs/")
		return f.gateway + path, nil
	case strings.HasPrefix(uri, "https://"), strings.HasPrefix(uri, "http://"):
		return uri, nil
	default:
		return "", fmt.Errorf("unsupported metadata uri: %q", uri)
	}
}

// Fetch 实现 transport.MetadataFetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	target, err := f.Resolve(uri)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d from %s", resp.StatusCode, target)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxMetadataBytes {
		return nil, fmt.Errorf("metadata exceeds %d bytes", maxMetadataBytes)
	}
	return body, nil
}
