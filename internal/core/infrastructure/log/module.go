package log

import (
	"context"
	"fmt"

	logconfig "github.com/weisyn/tokensdk/internal/config/log"
	logInterface "github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ModuleParams 定义日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *logconfig.Config `optional:"true"`
}

// ModuleOutput 定义日志模块的输出结构
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger // 日志记录器接口
	ZapLogger *zap.Logger         // 底层 zap 实例，供需要原生字段的组件使用
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 根据配置初始化日志记录器，应用停止时刷新缓冲
//
// 控制台输出写 stderr，Sync 在部分平台上对其返回 EINVAL，该错误只记录不上抛。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(params.Config)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("根据配置创建日志记录器失败: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := logger.Sync(); err != nil {
				logger.Debugf("刷新日志缓冲失败: %v", err)
			}
			return nil
		},
	})

	return ModuleOutput{
		Logger:    logger,
		ZapLogger: logger.GetZapLogger(),
	}, nil
}
