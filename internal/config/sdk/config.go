// Package sdk 能力解析与调度的运行配置
package sdk

import (
	"strings"
	"time"

	"github.com/weisyn/tokensdk/pkg/types"
)

// SDKOptions SDK 配置选项
type SDKOptions struct {
	// === 目录配置 ===
	IncludeExperimental bool `json:"include_experimental"` // 是否保留实验性接口版本

	// === 元数据配置 ===
	IPFSGateway      string        `json:"ipfs_gateway"`       // ipfs:// 改写网关，以 / 结尾
	MetadataTimeout  time.Duration `json:"metadata_timeout"`   // 单次请求超时
	MetadataCacheTTL time.Duration `json:"metadata_cache_ttl"` // 共享缓存存活时间；0 关闭

	// === 观测配置 ===
	MetricsEnabled bool `json:"metrics_enabled"`
}

// Config SDK 配置实现
type Config struct {
	options *SDKOptions
}

// New 创建 SDK 配置
//
// 用户配置中出现的字段覆盖默认值，nil 字段沿用默认值。
func New(userConfig *types.UserSDKConfig) *Config {
	options := createDefaultSDKOptions()
	if userConfig != nil {
		applyUserSDKConfig(options, userConfig)
	}
	return &Config{options: options}
}

func createDefaultSDKOptions() *SDKOptions {
	return &SDKOptions{
		IncludeExperimental: defaultIncludeExperimental,
		IPFSGateway:         defaultIPFSGateway,
		MetadataTimeout:     defaultMetadataTimeout,
		MetadataCacheTTL:    defaultMetadataCacheTTL,
		MetricsEnabled:      defaultMetricsEnabled,
	}
}

func applyUserSDKConfig(options *SDKOptions, user *types.UserSDKConfig) {
	if user.IncludeExperimental != nil {
		options.IncludeExperimental = *user.IncludeExperimental
	}
	if user.IPFSGateway != nil && strings.TrimSpace(*user.IPFSGateway) != "" {
		gateway := strings.TrimSpace(*user.IPFSGateway)
		if !strings.HasSuffix(gateway, "/") {
			gateway += "/"
		}
		options.IPFSGateway = gateway
	}
	if user.MetadataTimeoutSeconds != nil && *user.MetadataTimeoutSeconds > 0 {
		options.MetadataTimeout = time.Duration(*user.MetadataTimeoutSeconds) * time.Second
	}
	if user.MetadataCacheTTLSeconds != nil && *user.MetadataCacheTTLSeconds >= 0 {
		options.MetadataCacheTTL = time.Duration(*user.MetadataCacheTTLSeconds) * time.Second
	}
	if user.MetricsEnabled != nil {
		options.MetricsEnabled = *user.MetricsEnabled
	}
}

// GetOptions 获取完整的配置选项
func (c *Config) GetOptions() *SDKOptions {
	return c.options
}

// IncludeExperimental 是否保留实验性接口版本
func (c *Config) IncludeExperimental() bool {
	return c.options.IncludeExperimental
}

// GetIPFSGateway IPFS 网关
func (c *Config) GetIPFSGateway() string {
	return c.options.IPFSGateway
}

// GetMetadataTimeout 元数据请求超时
func (c *Config) GetMetadataTimeout() time.Duration {
	return c.options.MetadataTimeout
}

// GetMetadataCacheTTL 元数据缓存存活时间
func (c *Config) GetMetadataCacheTTL() time.Duration {
	return c.options.MetadataCacheTTL
}

// IsMetadataCacheEnabled 是否启用共享元数据缓存
func (c *Config) IsMetadataCacheEnabled() bool {
	return c.options.MetadataCacheTTL > 0
}

// IsMetricsEnabled 是否记录调度指标
func (c *Config) IsMetricsEnabled() bool {
	return c.options.MetricsEnabled
}

// FromOptions 由已合并的配置选项创建配置
func FromOptions(options *SDKOptions) *Config {
	if options == nil {
		return New(nil)
	}
	cp := *options
	return &Config{options: &cp}
}
