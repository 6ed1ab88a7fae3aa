// Package catalog 接口版本目录
//
// 目录由内嵌的 ABI 片段表与接口表构成，进程内只解析一次，之后只读。
// 每个接口版本由一个稳定的字符串标识，对应一组 ABI 方法片段。
package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/weisyn/tokensdk/pkg/types"
)

//go:embed data/*.json
var dataFS embed.FS

// ID 接口版本标识
type ID string

// 目录中已知的接口版本
const (
	ERC721  ID = "ERC721"
	ERC721A ID = "ERC721A"
	ERC1155 ID = "ERC1155"
	ERC2981 ID = "ERC2981"

	DropSinglePhaseV0     ID = "DropSinglePhase_V0"
	DropSinglePhaseV1     ID = "DropSinglePhase_V1"
	DropSinglePhaseV2     ID = "DropSinglePhase_V2"
	DropMultiPhaseV0      ID = "DropMultiPhase_V0"
	DropMultiPhaseV1      ID = "DropMultiPhase_V1"
	DropMultiPhaseV2      ID = "DropMultiPhase_V2"
	DropSinglePhase1155V1 ID = "DropSinglePhase1155_V1"
	DropSinglePhase1155V2 ID = "DropSinglePhase1155_V2"
	DropMultiPhase1155V0  ID = "DropMultiPhase1155_V0"
	DropMultiPhase1155V1  ID = "DropMultiPhase1155_V1"
	DropMultiPhase1155V2  ID = "DropMultiPhase1155_V2"

	Mintable721V0  ID = "Mintable721_V0"
	Mintable721V1  ID = "Mintable721_V1"
	Mintable1155V1 ID = "Mintable1155_V1"

	RoyaltyV0 ID = "Royalty_V0"
	RoyaltyV1 ID = "Royalty_V1"

	TermsV1 ID = "Terms_V1"
	TermsV2 ID = "Terms_V2"

	TransferWindowV0     ID = "TransferWindow_V0"
	TransferWindowV1     ID = "TransferWindow_V1"
	TransferWindow1155V1 ID = "TransferWindow1155_V1"

	ContractMetadataV1 ID = "ContractMetadata_V1"
)

// String 实现 fmt.Stringer
func (id ID) String() string { return string(id) }

// Interface 单个接口版本
type Interface struct {
	ID           ID
	Experimental bool
	Fragments    []string
	ABI          abi.ABI
}

// Catalog 只读的接口版本目录
type Catalog struct {
	order         []ID
	interfaces    map[ID]*Interface
	markers       map[types.TokenStandard][]ID
	introspection abi.ABI
}

type interfaceEntry struct {
	ID           ID       `json:"id"`
	Experimental bool     `json:"experimental"`
	Fragments    []string `json:"fragments"`
}

type interfaceTable struct {
	Introspection string                       `json:"introspection"`
	Markers       map[types.TokenStandard][]ID `json:"markers"`
	Interfaces    []interfaceEntry             `json:"interfaces"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	fragments, err := dataFS.ReadFile("data/fragments.json")
	if err != nil {
		return nil, err
	}
	interfaces, err := dataFS.ReadFile("data/interfaces.json")
	if err != nil {
		return nil, err
	}
	return Load(fragments, interfaces)
})

// LoadDefault 返回内嵌数据构建的目录
func LoadDefault() (*Catalog, error) {
	return loadDefault()
}

// Default 返回内嵌数据构建的目录
//
// 内嵌数据在构建期确定，解析失败属于程序缺陷，直接 panic。
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("catalog: 内嵌接口目录无效: %v", err))
	}
	return c
}

// Load 从片段表与接口表构建目录
func Load(fragmentsJSON, interfacesJSON []byte) (*Catalog, error) {
	var fragments map[string]json.RawMessage
	if err := json.Unmarshal(fragmentsJSON, &fragments); err != nil {
		return nil, fmt.Errorf("解析片段表失败: %w", err)
	}
	var table interfaceTable
	if err := json.Unmarshal(interfacesJSON, &table); err != nil {
		return nil, fmt.Errorf("解析接口表失败: %w", err)
	}

	c := &Catalog{
		interfaces: make(map[ID]*Interface, len(table.Interfaces)),
		markers:    make(map[types.TokenStandard][]ID, len(table.Markers)),
	}

	for _, entry := range table.Interfaces {
		if entry.ID == "" {
			return nil, fmt.Errorf("接口条目缺少 id")
		}
		if _, dup := c.interfaces[entry.ID]; dup {
			return nil, fmt.Errorf("接口 %s 重复定义", entry.ID)
		}
		parsed, err := buildABI(fragments, entry.Fragments)
		if err != nil {
			return nil, fmt.Errorf("接口 %s: %w", entry.ID, err)
		}
		c.interfaces[entry.ID] = &Interface{
			ID:           entry.ID,
			Experimental: entry.Experimental,
			Fragments:    append([]string(nil), entry.Fragments...),
			ABI:          parsed,
		}
		c.order = append(c.order, entry.ID)
	}

	for std, ids := range table.Markers {
		for _, id := range ids {
			if _, ok := c.interfaces[id]; !ok {
				return nil, fmt.Errorf("标准 %s 的标记接口 %s 不在目录中", std, id)
			}
		}
		c.markers[std] = append([]ID(nil), ids...)
	}

	if table.Introspection != "" {
		parsed, err := buildABI(fragments, []string{table.Introspection})
		if err != nil {
			return nil, fmt.Errorf("内省片段: %w", err)
		}
		c.introspection = parsed
	}
	return c, nil
}

// buildABI 将若干片段拼成一个 JSON ABI 数组再交给 abi.JSON 解析
func buildABI(fragments map[string]json.RawMessage, names []string) (abi.ABI, error) {
	if len(names) == 0 {
		return abi.ABI{}, fmt.Errorf("片段列表为空")
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		raw, ok := fragments[name]
		if !ok {
			return abi.ABI{}, fmt.Errorf("未知片段 %q", name)
		}
		parts = append(parts, string(raw))
	}
	doc := "[" + strings.Join(parts, ",") + "]"
	return abi.JSON(bytes.NewReader([]byte(doc)))
}

// Lookup 查找接口版本
func (c *Catalog) Lookup(id ID) (*Interface, bool) {
	iface, ok := c.interfaces[id]
	return iface, ok
}

// MustLookup 查找接口版本，不存在时 panic（仅用于静态表）
func (c *Catalog) MustLookup(id ID) *Interface {
	iface, ok := c.interfaces[id]
	if !ok {
		panic(fmt.Sprintf("catalog: 未知接口版本 %s", id))
	}
	return iface
}

// Known 是否为目录中的接口版本
func (c *Catalog) Known(id ID) bool {
	_, ok := c.interfaces[id]
	return ok
}

// IsExperimental 接口版本是否为实验性
func (c *Catalog) IsExperimental(id ID) bool {
	iface, ok := c.interfaces[id]
	return ok && iface.Experimental
}

// IDs 按目录声明顺序返回全部接口版本
func (c *Catalog) IDs() []ID {
	return append([]ID(nil), c.order...)
}

// Markers 返回某个代币标准的标记接口
func (c *Catalog) Markers(std types.TokenStandard) []ID {
	return append([]ID(nil), c.markers[std]...)
}

// Introspection 链上版本声明方法的 ABI
func (c *Catalog) Introspection() abi.ABI {
	return c.introspection
}

// Methods 返回接口版本包含的方法名（已排序，便于展示）
func (iface *Interface) Methods() []string {
	names := make([]string, 0, len(iface.ABI.Methods))
	for name := range iface.ABI.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pack 编码方法调用数据
func (iface *Interface) Pack(method string, args ...interface{}) ([]byte, error) {
	if _, ok := iface.ABI.Methods[method]; !ok {
		return nil, fmt.Errorf("接口 %s 不包含方法 %s", iface.ID, method)
	}
	return iface.ABI.Pack(method, args...)
}

// Unpack 解码方法返回数据
func (iface *Interface) Unpack(method string, data []byte) ([]interface{}, error) {
	if _, ok := iface.ABI.Methods[method]; !ok {
		return nil, fmt.Errorf("接口 %s 不包含方法 %s", iface.ID, method)
	}
	return iface.ABI.Unpack(method, data)
}
