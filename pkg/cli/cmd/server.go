package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LENAX/task-graph/pkg/api"
	"github.com/LENAX/task-graph/pkg/cli/output"
	"github.com/LENAX/task-graph/pkg/config"
	"github.com/LENAX/task-graph/pkg/core/dispatch"
	"github.com/LENAX/task-graph/pkg/core/engine"
	"github.com/LENAX/task-graph/pkg/core/events"
	"github.com/LENAX/task-graph/pkg/storage"
)

var (
	serverPort int
	serverHost string
	configPath string
)

// serverCmd server子命令
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "服务管理命令",
	Long:  `管理Task Graph HTTP API服务。`,
}

// serverStartCmd 启动服务
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "启动HTTP API服务",
	Long: `启动Task Graph HTTP API服务。

示例：
  # 使用默认配置启动
  task-graph server start

  # 指定端口启动
  task-graph server start --port 8080

  # 指定配置文件启动
  task-graph server start --config ./configs/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			output.Error("加载配置失败: %v", err)
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}

		// 事件总线与引擎
		bus := events.NewBus(events.BusConfig{
			Buffer: cfg.Events.Buffer,
			Debug:  cfg.Events.Debug,
		})
		defer bus.Close()

		eng := engine.NewEngineWithOptions(engine.Options{Bus: bus})

		// 快照持久化（可选）
		var repo storage.SnapshotRepository
		if cfg.Storage.Enabled {
			repo, err = storage.NewSnapshotRepository(cfg.Storage.Type, cfg.Storage.DSN)
			if err != nil {
				output.Error("创建快照仓库失败: %v", err)
				return err
			}
			defer repo.Close()

			tasks, err := repo.Load(context.Background())
			if err != nil {
				output.Error("加载快照失败: %v", err)
				return err
			}
			if err := eng.Restore(tasks); err != nil {
				output.Error("恢复快照失败: %v", err)
				return err
			}
			output.Info("已从快照恢复 %d 个Task", len(tasks))
		}

		// 定时分配器（可选）
		if cfg.Dispatcher.Enabled {
			pool := dispatch.NewAgentPool(cfg.Dispatcher.Agents)
			dispatcher := dispatch.NewDispatcher(eng, pool, bus, cfg.Dispatcher.Cron)
			if err := dispatcher.Start(); err != nil {
				output.Error("启动分配器失败: %v", err)
				return err
			}
			defer dispatcher.Stop()
		}

		// 创建并启动API服务器
		serverConfig := api.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		}
		apiServer := api.NewAPIServer(eng, bus, serverConfig, Version)

		go func() {
			if err := apiServer.Start(); err != nil {
				log.Printf("API服务器错误: %v", err)
			}
		}()

		output.Success("Task Graph Server started on %s:%d", cfg.Server.Host, cfg.Server.Port)

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		output.Info("正在关闭服务...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.WriteTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			output.Error("关闭API服务器失败: %v", err)
		}

		// 退出前保存快照
		if repo != nil {
			if err := repo.Save(context.Background(), eng.Snapshot()); err != nil {
				output.Error("保存快照失败: %v", err)
			} else {
				output.Info("快照已保存")
			}
		}

		output.Success("服务已停止")
		return nil
	},
}

func init() {
	serverStartCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "监听端口")
	serverStartCmd.Flags().StringVarP(&serverHost, "host", "H", "0.0.0.0", "监听地址")
	serverStartCmd.Flags().StringVarP(&configPath, "config", "c", "./configs/config.yaml", "配置文件路径")

	serverCmd.AddCommand(serverStartCmd)
}
