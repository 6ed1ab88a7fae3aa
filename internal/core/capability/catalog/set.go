package catalog

import "sort"

// Set 接口版本集合
//
// 合约实例的受支持版本集合在解析后不再修改，只做成员判断。
type Set map[ID]struct{}

// NewSet 由若干版本构造集合
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has 是否包含某版本
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// HasAny 是否包含任一版本
func (s Set) HasAny(ids ...ID) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// Sorted 按字典序返回集合元素
func (s Set) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings 按字典序返回集合元素的字符串形式
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, id := range sorted {
		out[i] = string(id)
	}
	return out
}
