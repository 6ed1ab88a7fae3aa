// Package storage 提供存储管理功能
package storage

import (
	"context"

	memoryconfig "github.com/weisyn/tokensdk/internal/config/storage/memory"
	"github.com/weisyn/tokensdk/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Config *memoryconfig.Config `optional:"true"` // 内存缓存配置
	Logger log.Logger           `optional:"true"` // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	MemoryStore storageInterface.MemoryStore // 内存存储
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),

		// 应用停止时关闭内存存储
		fx.Invoke(func(lc fx.Lifecycle, store storageInterface.MemoryStore, params ModuleParams) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					if err := store.Close(); err != nil {
						if params.Logger != nil {
							params.Logger.Errorf("关闭内存存储失败: %v", err)
						}
						return err
					}
					return nil
				},
			})
		}),
	)
}

// ProvideServices 根据配置初始化内存存储
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	store, err := memory.New(params.Config, params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{MemoryStore: store}, nil
}
