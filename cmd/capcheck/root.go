package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weisyn/tokensdk/client/core/output"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	OutputFormat string   // 输出格式
	RPCURLs      []string // 覆盖 TOKENSDK_RPC_URLS
}

var (
	globalFlags GlobalFlags
	envCfg      envConfig
	formatter   *output.Formatter
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "capcheck",
	Short: "代币合约能力检查工具",
	Long: `capcheck 检查操作覆盖的完整性，并展示已部署合约的版本解析结果。

环境变量:
  TOKENSDK_RPC_URLS              逗号分隔的 JSON-RPC 地址，按顺序故障转移
  TOKENSDK_CONFIG                JSON 配置文件
  TOKENSDK_INCLUDE_EXPERIMENTAL  保留实验性接口版本
  TOKENSDK_IPFS_GATEWAY          元数据 IPFS 网关
  TOKENSDK_LOG_LEVEL             日志级别（默认 warn）
  TOKENSDK_RPC_TIMEOUT           单次 RPC 超时（默认 15s）`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		envCfg, err = loadEnv()
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(output.Format(globalFlags.OutputFormat), cmd.OutOrStdout())
		formatter.SetLogWriter(cmd.ErrOrStderr())
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if formatter != nil {
			formatter.PrintError(err)
		} else {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "table", "输出格式: json|pretty|table")
	rootCmd.PersistentFlags().StringSliceVar(&globalFlags.RPCURLs, "rpc", nil, "JSON-RPC 地址，可重复指定（覆盖 TOKENSDK_RPC_URLS）")

	rootCmd.AddCommand(coversCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(metadataCmd)
}
