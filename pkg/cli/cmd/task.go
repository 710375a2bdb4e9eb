package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LENAX/task-graph/pkg/api/dto"
	"github.com/LENAX/task-graph/pkg/cli/client"
	"github.com/LENAX/task-graph/pkg/cli/output"
)

var (
	createTitle string
	createDesc  string
	createDeps  []string

	updateTitle  string
	updateDesc   string
	updateStatus string
	updateAgent  string

	listStatus string
	listAgent  string
)

// taskCmd task子命令
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Task管理命令",
	Long:  `管理Task，包括创建、列出、查看、更新、删除，以及就绪查询。`,
}

// taskCreateCmd 创建Task
var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "创建Task",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.CreateTask(createTitle, createDesc, createDeps)
		if err != nil {
			output.Error("创建失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}
		output.Success("Task创建成功: %s (%s)", result.Title, result.ID)
		return nil
	},
}

// taskListCmd 列出Task
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出Task",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.ListTasks(listStatus, listAgent)
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("暂无Task")
			return nil
		}

		table := output.NewTable([]string{"ID", "TITLE", "STATUS", "DEPS", "AGENT", "CREATED"})
		for _, t := range result.Items {
			agent := t.AssignedAgentID
			if agent == "" {
				agent = "-"
			}
			table.AddRow([]string{
				t.ID,
				t.Title,
				t.Status,
				fmt.Sprintf("%d", len(t.Dependencies)),
				agent,
				t.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

// taskShowCmd 查看Task详情
var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "查看Task详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.GetTask(args[0])
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		fmt.Printf("Task:     %s\n", result.Title)
		fmt.Printf("ID:       %s\n", result.ID)
		fmt.Printf("描述:     %s\n", result.Description)
		fmt.Printf("状态:     %s\n", result.Status)
		if result.AssignedAgentID != "" {
			fmt.Printf("Agent:    %s\n", result.AssignedAgentID)
		}
		if len(result.Dependencies) > 0 {
			fmt.Printf("依赖:     %s\n", strings.Join(result.Dependencies, ", "))
		}
		if len(result.Subtasks) > 0 {
			fmt.Printf("子Task:   %s\n", strings.Join(result.Subtasks, ", "))
		}
		fmt.Printf("创建时间: %s\n", result.CreatedAt.Format("2006-01-02 15:04:05"))
		if result.CompletedAt != nil {
			fmt.Printf("完成时间: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// taskUpdateCmd 更新Task
var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "更新Task（仅修改显式指定的字段）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.UpdateTaskRequest
		if cmd.Flags().Changed("title") {
			req.Title = &updateTitle
		}
		if cmd.Flags().Changed("desc") {
			req.Description = &updateDesc
		}
		if cmd.Flags().Changed("status") {
			req.Status = &updateStatus
		}
		if cmd.Flags().Changed("agent") {
			req.AssignedAgentID = &updateAgent
		}

		c := client.New(serverURL)
		result, err := c.UpdateTask(args[0], req)
		if err != nil {
			output.Error("更新失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}
		output.Success("Task更新成功: %s (%s)", result.Title, result.ID)
		return nil
	},
}

// taskDeleteCmd 删除Task
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "删除Task（级联清理其他Task对它的引用）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		deleted, err := c.DeleteTask(args[0])
		if err != nil {
			output.Error("删除失败: %v", err)
			return err
		}

		if deleted {
			output.Success("Task已删除: %s", args[0])
		} else {
			output.Warning("Task不存在: %s", args[0])
		}
		return nil
	},
}

// taskNextCmd 获取下一个就绪Task
var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "获取下一个就绪Task",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.NextTask()
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if !result.Found {
			output.Info("当前没有就绪的Task")
			return nil
		}
		output.Success("下一个就绪Task: %s (%s)", result.Task.Title, result.Task.ID)
		return nil
	},
}

// taskFrontierCmd 列出全部就绪Task
var taskFrontierCmd = &cobra.Command{
	Use:   "frontier",
	Short: "列出当前全部就绪Task",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.Frontier()
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Items) == 0 {
			output.Info("当前没有就绪的Task")
			return nil
		}

		table := output.NewTable([]string{"ID", "TITLE", "CREATED"})
		for _, t := range result.Items {
			table.AddRow([]string{
				t.ID,
				t.Title,
				t.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

// taskPlanCmd 查看并行执行计划
var taskPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "查看依赖图的拓扑分层（每层可并行执行）",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL)
		result, err := c.Plan()
		if err != nil {
			output.Error("查询失败: %v", err)
			return err
		}

		if outputJSON {
			return output.PrintJSON(result)
		}

		if len(result.Levels) == 0 {
			output.Info("当前没有Task")
			return nil
		}
		for i, level := range result.Levels {
			fmt.Printf("Level %d: %s\n", i+1, strings.Join(level, ", "))
		}
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().StringVar(&createTitle, "title", "", "Task标题（必填）")
	taskCreateCmd.Flags().StringVar(&createDesc, "desc", "", "Task描述（必填）")
	taskCreateCmd.Flags().StringSliceVar(&createDeps, "deps", nil, "依赖的Task ID列表（逗号分隔）")
	taskCreateCmd.MarkFlagRequired("title")
	taskCreateCmd.MarkFlagRequired("desc")

	taskUpdateCmd.Flags().StringVar(&updateTitle, "title", "", "新标题")
	taskUpdateCmd.Flags().StringVar(&updateDesc, "desc", "", "新描述")
	taskUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "新状态 (pending/in_progress/completed/failed/blocked)")
	taskUpdateCmd.Flags().StringVar(&updateAgent, "agent", "", "分配的Agent ID")

	taskListCmd.Flags().StringVar(&listStatus, "status", "", "按状态过滤")
	taskListCmd.Flags().StringVar(&listAgent, "agent", "", "按Agent过滤")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskNextCmd)
	taskCmd.AddCommand(taskFrontierCmd)
	taskCmd.AddCommand(taskPlanCmd)
}
