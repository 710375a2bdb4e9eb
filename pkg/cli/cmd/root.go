package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// 全局变量
	serverURL  string
	outputJSON bool
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "task-graph",
	Short: "Task Graph CLI - 任务依赖图引擎命令行工具",
	Long: `Task Graph CLI 是一个用于管理任务依赖图的命令行工具。

支持的功能：
  - 管理Task（创建、列出、查看、更新、删除）
  - 管理依赖边与子Task关系
  - 查询就绪Task与并行执行计划
  - 启动HTTP API服务

使用示例：
  # 创建Task
  task-graph task create --title "数据清洗" --desc "清洗原始数据"

  # 添加依赖边
  task-graph dep add <task-id> <depends-on-id>

  # 获取下一个就绪Task
  task-graph task next

  # 启动HTTP服务
  task-graph server start --port 8080`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Task Graph服务器地址")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "使用JSON格式输出")

	// 添加子命令
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(depCmd)
	rootCmd.AddCommand(subtaskCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}
