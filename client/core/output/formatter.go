// Package output provides output formatting functionality for client commands.
package output

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	sdkerrors "github.com/weisyn/tokensdk/pkg/errors"
)

// Format 输出格式
type Format string

const (
	// FormatJSON JSON格式（默认）
	FormatJSON Format = "json"
	// FormatPretty 美化JSON格式
	FormatPretty Format = "pretty"
	// FormatTable 表格格式
	FormatTable Format = "table"
)

// Table 按列顺序输出的表格数据；JSON 格式下输出为对象数组
type Table struct {
	Columns []string
	Rows    [][]string
}

// Formatter 输出格式化器
type Formatter struct {
	format    Format
	writer    io.Writer // 数据输出
	logWriter io.Writer // 错误与提示输出
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Formatter{
		format:    format,
		writer:    writer,
		logWriter: os.Stderr, // 避免污染 JSON
	}
}

// SetLogWriter 设置错误输出目标（默认 stderr）
func (f *Formatter) SetLogWriter(writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	f.logWriter = writer
}

// Print 打印输出
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatTable:
		if t, ok := data.(*Table); ok {
			return f.printTable(t)
		}
		return f.printJSON(data, true)
	case FormatPretty:
		return f.printJSON(jsonValue(data), true)
	default:
		return f.printJSON(jsonValue(data), false)
	}
}

func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var output []byte
	var err error
	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, string(output)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (f *Formatter) printTable(t *Table) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(t.Columns, "\t")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range cells {
			cells[i] = "-"
			if i < len(row) && row[i] != "" {
				cells[i] = row[i]
			}
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

// jsonValue 表格转换为对象数组，其余原样返回
func jsonValue(data interface{}) interface{} {
	t, ok := data.(*Table)
	if !ok {
		return data
	}
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}

// PrintError 按错误信封输出错误（写入 logWriter）
func (f *Formatter) PrintError(err error) {
	if err == nil {
		return
	}
	out := NewErrorOutput(err)
	data, marshalErr := json.Marshal(out)
	if marshalErr != nil {
		_, _ = fmt.Fprintf(f.logWriter, "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprintln(f.logWriter, string(data))
}

// ErrorOutput 错误输出结构
type ErrorOutput struct {
	Error struct {
		Code     string                 `json:"code"`
		Category string                 `json:"category"`
		Message  string                 `json:"message"`
		Context  map[string]interface{} `json:"context,omitempty"`
	} `json:"error"`
}

// NewErrorOutput 由错误构造输出；非信封错误归为 UNKNOWN_ERROR
func NewErrorOutput(err error) *ErrorOutput {
	out := &ErrorOutput{}
	kind := sdkerrors.KindOf(err)
	out.Error.Code = string(kind)
	out.Error.Category = string(kind.Category())
	out.Error.Message = err.Error()

	var env *sdkerrors.Error
	if stderrors.As(err, &env) {
		if env.Message != "" {
			out.Error.Message = env.Message
		}
		out.Error.Context = stringifyContext(env.Context)
	}
	return out
}

// stringifyContext 上下文里的大整数、地址等统一转为字符串，保证可序列化
func stringifyContext(ctx map[string]interface{}) map[string]interface{} {
	if len(ctx) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		switch val := v.(type) {
		case string, bool, int, int64, uint64, nil:
			out[k] = val
		case fmt.Stringer:
			out[k] = val.String()
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}
