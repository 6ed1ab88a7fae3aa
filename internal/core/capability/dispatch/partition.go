package dispatch

import (
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
)

// Partition 覆盖在某个受支持版本集合上的解析结果
//
// 对同一操作与同一集合，结果完全确定；解析后只读。
type Partition struct {
	operation string
	supported bool
	keys      []string
	matches   map[string]catalog.ID
}

// ResolvePartition 解析分区
//
// 操作处理的版本与集合无交集时为不支持；否则每个分区键按声明顺序取第一个出现在集合中的版本，
// 都不出现时该键缺席。
func ResolvePartition(op *Operation, supported catalog.Set) *Partition {
	p := &Partition{
		operation: op.name,
		matches:   make(map[string]catalog.ID, len(op.partitions)),
	}
	for _, part := range op.partitions {
		p.keys = append(p.keys, part.Key)
	}
	for id := range op.handleSet {
		if supported.Has(id) {
			p.supported = true
			break
		}
	}
	if !p.supported {
		return p
	}
	for _, part := range op.partitions {
		for _, id := range part.IDs {
			if supported.Has(id) {
				p.matches[part.Key] = id
				break
			}
		}
	}
	return p
}

// Operation 分区所属的操作名称
func (p *Partition) Operation() string { return p.operation }

// Supported 操作是否可用
func (p *Partition) Supported() bool { return p.supported }

// Match 分区键解析到的版本
func (p *Partition) Match(key string) (catalog.ID, bool) {
	id, ok := p.matches[key]
	return id, ok
}

// Present 已解析到版本的分区键（声明顺序）
func (p *Partition) Present() []string {
	var out []string
	for _, k := range p.keys {
		if _, ok := p.matches[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Matches 分区键到版本的映射副本
func (p *Partition) Matches() map[string]catalog.ID {
	out := make(map[string]catalog.ID, len(p.matches))
	for k, v := range p.matches {
		out[k] = v
	}
	return out
}
