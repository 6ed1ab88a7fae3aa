package sdk

import "time"

// SDK 默认配置值
const (
	// defaultIncludeExperimental 默认不暴露实验性接口版本
	defaultIncludeExperimental = false

	// defaultIPFSGateway 公共 IPFS 网关
	defaultIPFSGateway = "https://ipfs.io/ipfs/"

	// defaultMetadataTimeout 元数据请求超时
	defaultMetadataTimeout = 10 * time.Second

	// defaultMetadataCacheTTL 共享元数据缓存存活时间
	defaultMetadataCacheTTL = 10 * time.Minute

	// defaultMetricsEnabled 默认记录调度指标
	defaultMetricsEnabled = true
)
