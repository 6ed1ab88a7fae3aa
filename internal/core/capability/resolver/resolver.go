// Package resolver 合约能力解析
//
// 把合约自报的版本字符串与目录求交，得到受支持版本集合，并由标准标记接口推导代币标准。
package resolver

import (
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	logImpl "github.com/weisyn/tokensdk/internal/core/infrastructure/log"
	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
	"github.com/weisyn/tokensdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokensdk/pkg/types"
)

// standardPriority 两组标记同时出现时按此顺序判定
var standardPriority = []types.TokenStandard{types.StandardERC721, types.StandardERC1155}

// Resolver 合约能力解析器
type Resolver struct {
	catalog *catalog.Catalog
	logger  log.Logger
}

// New 创建解析器；logger 为 nil 时不输出日志
func New(c *catalog.Catalog, logger log.Logger) *Resolver {
	if c == nil {
		c = catalog.Default()
	}
	return &Resolver{
		catalog: c,
		logger:  logImpl.NewModuleLogger(logger, "resolver"),
	}
}

// Catalog 解析器使用的目录
func (r *Resolver) Catalog() *catalog.Catalog { return r.catalog }

// SupportedVersions 与目录求交
//
// 目录中不存在的版本静默丢弃；includeExperimental 为 false 时同时丢弃实验性版本。
func (r *Resolver) SupportedVersions(declared []string, includeExperimental bool) catalog.Set {
	set := make(catalog.Set, len(declared))
	for _, raw := range declared {
		id := catalog.ID(raw)
		if !r.catalog.Known(id) {
			r.logger.Debugf("忽略未知接口版本: %s", raw)
			continue
		}
		if !includeExperimental && r.catalog.IsExperimental(id) {
			r.logger.Debugf("忽略实验性接口版本: %s", raw)
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// ClassifyStandard 由标记接口推导代币标准
func (r *Resolver) ClassifyStandard(set catalog.Set) (types.TokenStandard, error) {
	for _, std := range standardPriority {
		if set.HasAny(r.catalog.Markers(std)...) {
			return std, nil
		}
	}
	return "", sdkerrors.New(sdkerrors.KindEmptyTokenStandard,
		"合约未声明任何代币标准标记接口",
		map[string]interface{}{"supported": set.Strings()})
}

// Resolve 解析受支持版本集合与代币标准
//
// 标准推导失败时仍返回求交后的集合，由调用方决定错误在何时暴露。
func (r *Resolver) Resolve(declared []string, includeExperimental bool) (catalog.Set, types.TokenStandard, error) {
	set := r.SupportedVersions(declared, includeExperimental)
	std, err := r.ClassifyStandard(set)
	if err != nil {
		r.logger.Warnf("代币标准推导失败: declared=%d supported=%d", len(declared), len(set))
		return set, "", err
	}
	r.logger.Infof("合约能力解析完成: standard=%s supported=%d", std, len(set))
	return set, std, nil
}
