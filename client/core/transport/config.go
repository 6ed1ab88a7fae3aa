package transport

import "time"

// ClientConfig 客户端配置
type ClientConfig struct {
	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	// 单次调用超时
	Timeout time.Duration `json:"timeout"`
	// 一次调用最多尝试的不同端点数；0 表示全部端点，同一端点不会重复尝试
	RetryAttempts int `json:"retry_attempts"`

	// 健康检查；0 表示不启动后台检查
	HealthCheckInterval time.Duration `json:"health_check_interval"`
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 优先级,数字越小越优先
	RPC      string `json:"rpc"`      // http(s):// 或 ws(s):// JSON-RPC 地址
}

const defaultTimeout = 30 * time.Second

func (c *ClientConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// attempts 一次调用实际尝试的端点数
func (c *ClientConfig) attempts(endpoints int) int {
	if c.RetryAttempts <= 0 || c.RetryAttempts > endpoints {
		return endpoints
	}
	return c.RetryAttempts
}
