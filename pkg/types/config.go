package types

// UserSDKConfig 用户SDK配置
// 只包含配置中实际出现的字段；nil 表示沿用默认值
type UserSDKConfig struct {
	// IncludeExperimental 是否保留目录中标记为实验性的接口版本
	IncludeExperimental *bool `json:"include_experimental,omitempty"`

	// IPFSGateway ipfs:// 元数据地址改写使用的网关
	IPFSGateway *string `json:"ipfs_gateway,omitempty"`

	// MetadataTimeoutSeconds 链下元数据请求超时（秒）
	MetadataTimeoutSeconds *int `json:"metadata_timeout_seconds,omitempty"`

	// MetadataCacheTTLSeconds 链下元数据缓存存活时间（秒）；0 关闭共享缓存
	MetadataCacheTTLSeconds *int `json:"metadata_cache_ttl_seconds,omitempty"`

	// MetricsEnabled 是否记录调度指标
	MetricsEnabled *bool `json:"metrics_enabled,omitempty"`

	// Log 日志配置
	Log *UserLogConfig `json:"log,omitempty"`
}

// UserLogConfig 用户日志配置
// 只包含配置中实际出现的字段
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}
