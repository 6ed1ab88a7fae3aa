package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 调度次数（按操作、分区键、调用模式）
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokensdk",
		Subsystem: "dispatch",
		Name:      "calls_total",
		Help:      "Total number of dispatched operation calls",
	}, []string{"operation", "partition", "mode"})

	// 调度失败次数（按操作、调用模式、错误种类）
	dispatchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokensdk",
		Subsystem: "dispatch",
		Name:      "failures_total",
		Help:      "Total number of failed operation calls by error kind",
	}, []string{"operation", "mode", "kind"})

	// 合约能力解析次数（按代币标准；推导失败记为 none）
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tokensdk",
		Subsystem: "resolver",
		Name:      "resolutions_total",
		Help:      "Total number of contract capability resolutions",
	}, []string{"standard"})
)
