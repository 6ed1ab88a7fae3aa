// Package errors 提供SDK统一的错误信封
//
// 📋 **错误信封 (Error Envelope)**
//
// 所有公开操作要么返回结果，要么返回且仅返回一个 *Error，其中携带：
// - Kind：封闭的错误种类集合
// - Category：机器可用的来源分类（input / feature / request / chain）
// - Context：结构化上下文（尝试调用时的参数）
// - Cause：底层原始错误（存在时）
//
// 调用方依据 Category 决定：重试（chain）、修正输入（input）、视为能力缺失（feature）。
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Kind 错误种类
type Kind string

const (
	// KindFeatureNotSupported 当前合约/操作没有可用的分区
	KindFeatureNotSupported Kind = "FEATURE_NOT_SUPPORTED"
	// KindEmptyTokenStandard 合约不匹配任何标准标记组
	KindEmptyTokenStandard Kind = "EMPTY_TOKEN_STANDARD"
	// KindChainError 底层读写传输失败
	KindChainError Kind = "CHAIN_ERROR"
	// KindTokenIDRequired 多代币合约缺少 token id
	KindTokenIDRequired Kind = "TOKEN_ID_REQUIRED"
	// KindTokenIDRejected 单代币合约不接受 token id
	KindTokenIDRejected Kind = "TOKEN_ID_REJECTED"
	// KindInvalidData 参数未通过本地前置校验
	KindInvalidData Kind = "INVALID_DATA"
	// KindWebRequestFailed 链下辅助请求（元数据）失败
	KindWebRequestFailed Kind = "WEB_REQUEST_FAILED"
	// KindUnknown 其余未分类错误
	KindUnknown Kind = "UNKNOWN_ERROR"
)

// Category 错误来源分类
type Category string

const (
	CategoryInput   Category = "input"
	CategoryFeature Category = "feature"
	CategoryRequest Category = "request"
	CategoryChain   Category = "chain"
	// CategoryNone 未分类错误没有来源分类
	CategoryNone Category = ""
)

// Category 返回错误种类对应的来源分类
func (k Kind) Category() Category {
	switch k {
	case KindFeatureNotSupported, KindEmptyTokenStandard:
		return CategoryFeature
	case KindChainError:
		return CategoryChain
	case KindTokenIDRequired, KindTokenIDRejected, KindInvalidData:
		return CategoryInput
	case KindWebRequestFailed:
		return CategoryRequest
	default:
		return CategoryNone
	}
}

// Retryable 仅链上/传输错误值得调用方重试
func (k Kind) Retryable() bool {
	return k.Category() == CategoryChain || k.Category() == CategoryRequest
}

// 各错误种类的哨兵值，供 errors.Is 比较
var (
	ErrFeatureNotSupported = &Error{Kind: KindFeatureNotSupported}
	ErrEmptyTokenStandard  = &Error{Kind: KindEmptyTokenStandard}
	ErrChain               = &Error{Kind: KindChainError}
	ErrTokenIDRequired     = &Error{Kind: KindTokenIDRequired}
	ErrTokenIDRejected     = &Error{Kind: KindTokenIDRejected}
	ErrInvalidData         = &Error{Kind: KindInvalidData}
	ErrWebRequestFailed    = &Error{Kind: KindWebRequestFailed}
	ErrUnknown             = &Error{Kind: KindUnknown}
)

// Error SDK错误信封
type Error struct {
	Kind    Kind                   // 错误种类
	Message string                 // 错误消息
	Context map[string]interface{} // 上下文信息（尝试调用的参数）
	Cause   error                  // 原始错误
}

// Error 实现error接口
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " ")))
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}
	// Wrap 以底层错误文本作为消息，此时不再重复追加
	if e.Cause != nil && e.Cause.Error() != e.Message {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap 支持错误链
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误种类比较，使 errors.Is(err, ErrChain) 成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Category 返回来源分类
func (e *Error) Category() Category {
	return e.Kind.Category()
}

// New 创建指定种类的错误
func New(kind Kind, message string, context map[string]interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: context,
	}
}

// Newf 使用格式化消息创建错误
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 将底层错误包装为指定种类
//
// 已经是信封的错误原样返回：传输错误只在调度边界包装一次。
func Wrap(kind Kind, cause error, context map[string]interface{}) error {
	if cause == nil {
		return nil
	}
	var env *Error
	if stderrors.As(cause, &env) {
		return cause
	}
	return &Error{
		Kind:    kind,
		Message: cause.Error(),
		Context: context,
		Cause:   cause,
	}
}

// Ensure 保证返回的错误一定是信封，未分类错误归为 UNKNOWN_ERROR
func Ensure(err error) error {
	return Wrap(KindUnknown, err, nil)
}

// KindOf 提取错误种类；nil 返回空字符串
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var env *Error
	if stderrors.As(err, &env) {
		return env.Kind
	}
	return KindUnknown
}

// IsKind 判断错误是否为指定种类
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// WithContext 返回附加上下文后的副本
func (e *Error) WithContext(key string, value interface{}) *Error {
	ctx := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	cp := *e
	cp.Context = ctx
	return &cp
}
