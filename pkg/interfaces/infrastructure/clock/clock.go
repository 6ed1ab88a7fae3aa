// Package clock provides the time source interface.
package clock

import "time"

// Clock 统一的时间源接口
//
// 领取状态判定（冷却窗口、阶段开始时间）依赖当前时间，通过此接口注入以便测试。
type Clock interface {
	// Now 获取当前时间
	Now() time.Time

	// Since 计算从指定时间到现在的持续时间
	Since(t time.Time) time.Duration

	// Unix 获取当前Unix时间戳（秒）
	Unix() int64

	// UnixNano 获取当前Unix时间戳（纳秒）
	UnixNano() int64
}
