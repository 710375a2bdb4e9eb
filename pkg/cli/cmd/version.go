package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version 版本号（构建时通过ldflags注入）
var Version = "0.1.0"

// versionCmd 版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("task-graph version %s\n", Version)
	},
}
