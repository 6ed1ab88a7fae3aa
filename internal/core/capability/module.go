// Package capability 能力解析与调度的依赖注入模块
package capability

import (
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/resolver"
	clockImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/clock"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ModuleParams 定义能力模块的依赖参数
type ModuleParams struct {
	fx.In

	Logger log.Logger `optional:"true"`
}

// ModuleOutput 定义能力模块的输出结构
type ModuleOutput struct {
	fx.Out

	Catalog  *catalog.Catalog
	Resolver *resolver.Resolver
	Clock    clock.Clock
}

// Module 返回能力模块
func Module() fx.Option {
	return fx.Module("capability",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 加载内嵌目录并创建解析器
//
// 内嵌目录无效时返回错误，不在依赖注入阶段 panic。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	c, err := catalog.LoadDefault()
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{
		Catalog:  c,
		Resolver: resolver.New(c, params.Logger),
		Clock:    clockImpl.NewSystemClock(),
	}, nil
}
