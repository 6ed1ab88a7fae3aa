package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/tokensdk/client/core/output"
	"github.com/weisyn/tokensdk/internal/core/capability/catalog"
	"github.com/weisyn/tokensdk/internal/core/capability/cover"
	"github.com/weisyn/tokensdk/internal/core/capability/dispatch"
	_ "github.com/weisyn/tokensdk/internal/core/capability/features" // 注册全部操作
)

// coversCmd 校验并列出全部操作的覆盖
var coversCmd = &cobra.Command{
	Use:   "covers",
	Short: "校验全部操作的覆盖并输出分区表",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, failed := coversTable(catalog.Default())
		if err := formatter.Print(table); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d 个操作的覆盖校验失败", failed)
		}
		return nil
	},
}

// coversTable 每个分区一行；校验失败的操作单独一行写明原因
func coversTable(c *catalog.Catalog) (*output.Table, int) {
	table := &output.Table{Columns: []string{"operation", "token_scoped", "partition", "versions", "status"}}
	failed := 0
	for _, op := range dispatch.Operations() {
		status := "ok"
		if err := validateOperation(c, op); err != nil {
			status = err.Error()
			failed++
		}
		scoped := fmt.Sprintf("%t", op.IsTokenScoped())
		for _, p := range op.Cover() {
			table.Rows = append(table.Rows, []string{op.Name(), scoped, p.Key, joinIDs(p.IDs), status})
		}
	}
	return table, failed
}

// validateOperation 覆盖完整且全部版本都在目录中
func validateOperation(c *catalog.Catalog, op *dispatch.Operation) error {
	if err := cover.Validate(op.Name(), op.Handles(), op.Cover()); err != nil {
		return err
	}
	for _, id := range op.Handles() {
		if !c.Known(id) {
			return fmt.Errorf("版本 %s 不在目录中", id)
		}
	}
	return nil
}

func joinIDs(ids []catalog.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ",")
}
