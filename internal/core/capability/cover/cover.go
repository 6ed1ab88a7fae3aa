// Package cover 操作覆盖校验
//
// 一个操作声明它处理的接口版本全集，以及把这些版本分组到若干分区键下的覆盖。
// 覆盖必须完整：全集中的每个版本至少出现在一个分区中。分区之间允许重叠。
package cover

import (
	"fmt"
	"sort"
	"strings"

	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
)

// Partition 覆盖中的一个分区：分区键与按优先级排列的版本列表
type Partition struct {
	Key string
	IDs []catalog.ID
}

// IncompleteError 覆盖缺失版本
type IncompleteError struct {
	Operation string
	Missing   []catalog.ID
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		names[i] = string(id)
	}
	return fmt.Sprintf("操作 %s 的覆盖不完整，缺少: %s", e.Operation, strings.Join(names, ", "))
}

// Validate 校验覆盖是否包含全集中的每个版本
//
// 返回的 *IncompleteError 按字典序列出全部缺失版本。
// 结构性问题（空分区、重复分区键、空键、分区中出现全集外的版本）同样报错。
func Validate(operation string, handled []catalog.ID, partitions []Partition) error {
	if len(handled) == 0 {
		return fmt.Errorf("操作 %s 未声明任何接口版本", operation)
	}
	universe := catalog.NewSet(handled...)
	covered := make(catalog.Set, len(handled))
	keys := make(map[string]struct{}, len(partitions))

	for _, p := range partitions {
		if p.Key == "" {
			return fmt.Errorf("操作 %s 存在空分区键", operation)
		}
		if _, dup := keys[p.Key]; dup {
			return fmt.Errorf("操作 %s 的分区键 %q 重复", operation, p.Key)
		}
		keys[p.Key] = struct{}{}
		if len(p.IDs) == 0 {
			return fmt.Errorf("操作 %s 的分区 %q 为空", operation, p.Key)
		}
		for _, id := range p.IDs {
			if !universe.Has(id) {
				return fmt.Errorf("操作 %s 的分区 %q 含有未声明的版本 %s", operation, p.Key, id)
			}
			covered[id] = struct{}{}
		}
	}

	var missing []catalog.ID
	for id := range universe {
		if !covered.Has(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return &IncompleteError{Operation: operation, Missing: missing}
	}
	return nil
}

// Union 覆盖中全部分区的并集
func Union(partitions []Partition) catalog.Set {
	s := make(catalog.Set)
	for _, p := range partitions {
		for _, id := range p.IDs {
			s[id] = struct{}{}
		}
	}
	return s
}
