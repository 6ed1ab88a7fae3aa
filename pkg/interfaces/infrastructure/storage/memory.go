// Package storage 定义SDK使用的存储接口
package storage

import "context"

// MemoryStore 进程内字节缓存
//
// 条目的存活时间由实现的配置统一决定；未命中返回 exists=false 而不是错误。
type MemoryStore interface {
	// Get 获取缓存值，返回值、是否存在及可能的错误
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除指定键的缓存；键不存在时不返回错误
	Delete(ctx context.Context, key string) error

	// Count 当前条目数
	Count(ctx context.Context) (int64, error)

	// Close 释放资源；重复关闭不返回错误
	Close() error
}
