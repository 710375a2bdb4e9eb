package cmd

import (
	"github.com/spf13/cobra"

	"github.com/LENAX/task-graph/pkg/cli/client"
	"github.com/LENAX/task-graph/pkg/cli/output"
)

// depCmd 依赖边管理子命令
var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "依赖边管理命令",
	Long:  `管理Task之间的依赖边。添加依赖边时会做循环检测，构成环的边会被拒绝。`,
}

// depAddCmd 添加依赖边
var depAddCmd = &cobra.Command{
	Use:   "add <task-id> <depends-on-id>",
	Short: "添加依赖边（task依赖depends-on）",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.AddDependency(args[0], args[1])
		if err != nil {
			output.Error("添加依赖失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}
		output.Success("依赖边已添加: %s -> %s", args[0], args[1])
		return nil
	},
}

// depRemoveCmd 移除依赖边
var depRemoveCmd = &cobra.Command{
	Use:   "rm <task-id> <depends-on-id>",
	Short: "移除依赖边",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.RemoveDependency(args[0], args[1])
		if err != nil {
			output.Error("移除依赖失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}
		output.Success("依赖边已移除: %s -> %s", args[0], args[1])
		return nil
	},
}

// subtaskCmd 子Task管理子命令
var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "子Task管理命令",
	Long:  `管理Task的父子层级。子Task关系仅是组织层级，不做循环检测。`,
}

// subtaskAddCmd 挂载子Task
var subtaskAddCmd = &cobra.Command{
	Use:   "add <parent-id> <child-id>",
	Short: "将child挂载为parent的子Task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.AddSubtask(args[0], args[1])
		if err != nil {
			output.Error("挂载子Task失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}
		output.Success("子Task已挂载: %s -> %s", args[0], args[1])
		return nil
	},
}

// subtaskRemoveCmd 移除子Task
var subtaskRemoveCmd = &cobra.Command{
	Use:   "rm <parent-id> <child-id>",
	Short: "将child从parent的子Task列表中移除",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.RemoveSubtask(args[0], args[1])
		if err != nil {
			output.Error("移除子Task失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}
		output.Success("子Task已移除: %s -> %s", args[0], args[1])
		return nil
	},
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)

	subtaskCmd.AddCommand(subtaskAddCmd)
	subtaskCmd.AddCommand(subtaskRemoveCmd)
}
