package memory

import "time"

// 内存缓存默认配置值
// 缓存对象是链下元数据文档，条目少、体积小
const (
	// defaultMaxEntries 默认窗口内条目数
	defaultMaxEntries = 1024

	// defaultMaxEntrySize 元数据文档通常在几 KB 以内
	defaultMaxEntrySize = 8 * 1024

	// defaultDefaultTTL 默认存活 10 分钟
	defaultDefaultTTL = 10 * time.Minute

	// defaultShards 默认分片数
	defaultShards = 64

	// defaultCleanupInterval 默认清理间隔
	defaultCleanupInterval = 5 * time.Minute
)
