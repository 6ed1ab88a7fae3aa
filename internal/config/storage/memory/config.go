package memory

import "time"

// MemoryOptions 内存缓存配置选项
type MemoryOptions struct {
	// === 基础配置 ===
	MaxEntries   int           `json:"max_entries"`    // 窗口内预估条目数
	MaxEntrySize int           `json:"max_entry_size"` // 单条目预估大小（字节）
	DefaultTTL   time.Duration `json:"default_ttl"`    // 条目存活时间
	Shards       int           `json:"shards"`         // 分片数，必须为 2 的幂

	// === 清理配置 ===
	CleanupInterval time.Duration `json:"cleanup_interval"` // 清理间隔
}

// Config 内存缓存配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存缓存配置
//
// userConfig 为 *MemoryOptions 时按非零字段覆盖默认值。
func New(userConfig interface{}) *Config {
	options := createDefaultMemoryOptions()
	if user, ok := userConfig.(*MemoryOptions); ok && user != nil {
		if user.MaxEntries > 0 {
			options.MaxEntries = user.MaxEntries
		}
		if user.MaxEntrySize > 0 {
			options.MaxEntrySize = user.MaxEntrySize
		}
		if user.DefaultTTL > 0 {
			options.DefaultTTL = user.DefaultTTL
		}
		if user.Shards > 0 {
			options.Shards = user.Shards
		}
		if user.CleanupInterval > 0 {
			options.CleanupInterval = user.CleanupInterval
		}
	}
	return &Config{options: options}
}

// createDefaultMemoryOptions 创建默认内存缓存配置
func createDefaultMemoryOptions() *MemoryOptions {
	return &MemoryOptions{
		MaxEntries:      defaultMaxEntries,
		MaxEntrySize:    defaultMaxEntrySize,
		DefaultTTL:      defaultDefaultTTL,
		Shards:          defaultShards,
		CleanupInterval: defaultCleanupInterval,
	}
}

// GetOptions 获取完整的配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}

// GetLifeWindow 条目存活时间
func (c *Config) GetLifeWindow() time.Duration {
	return c.options.DefaultTTL
}

// GetCleanWindow 清理间隔
func (c *Config) GetCleanWindow() time.Duration {
	return c.options.CleanupInterval
}

// GetMaxEntriesInWindow 窗口内最大条目数
// 上限 10000，避免 BigCache 预分配过多内存
func (c *Config) GetMaxEntriesInWindow() int {
	if c.options.MaxEntries > 10000 {
		return 10000
	}
	return c.options.MaxEntries
}

// GetMaxEntrySize 单条目预估大小
func (c *Config) GetMaxEntrySize() int {
	return c.options.MaxEntrySize
}

// GetShards 分片数
func (c *Config) GetShards() int {
	return c.options.Shards
}
