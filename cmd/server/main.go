package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LENAX/task-graph/pkg/api"
	"github.com/LENAX/task-graph/pkg/config"
	"github.com/LENAX/task-graph/pkg/core/dispatch"
	"github.com/LENAX/task-graph/pkg/core/engine"
	"github.com/LENAX/task-graph/pkg/core/events"
	"github.com/LENAX/task-graph/pkg/storage"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("加载配置失败: ", err)
	}

	// 2. 创建事件总线与引擎
	bus := events.NewBus(events.BusConfig{
		Buffer: cfg.Events.Buffer,
		Debug:  cfg.Events.Debug,
	})
	defer bus.Close()

	eng := engine.NewEngineWithOptions(engine.Options{Bus: bus})

	// 3. 快照持久化（可选）：启动时恢复，退出时保存
	var repo storage.SnapshotRepository
	if cfg.Storage.Enabled {
		repo, err = storage.NewSnapshotRepository(cfg.Storage.Type, cfg.Storage.DSN)
		if err != nil {
			log.Fatal("创建快照仓库失败: ", err)
		}
		defer repo.Close()

		tasks, err := repo.Load(context.Background())
		if err != nil {
			log.Fatal("加载快照失败: ", err)
		}
		if err := eng.Restore(tasks); err != nil {
			log.Fatal("恢复快照失败: ", err)
		}
		log.Printf("📂 已从快照恢复 %d 个Task", len(tasks))
	}

	// 4. 定时分配器（可选）
	if cfg.Dispatcher.Enabled {
		pool := dispatch.NewAgentPool(cfg.Dispatcher.Agents)
		dispatcher := dispatch.NewDispatcher(eng, pool, bus, cfg.Dispatcher.Cron)
		if err := dispatcher.Start(); err != nil {
			log.Fatal("启动分配器失败: ", err)
		}
		defer dispatcher.Stop()
	}

	// 5. 启动API服务器
	serverConfig := api.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	apiServer := api.NewAPIServer(eng, bus, serverConfig, version)

	go func() {
		if err := apiServer.Start(); err != nil {
			log.Fatal("启动API服务器失败: ", err)
		}
	}()

	// 6. 等待中断信号后优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.WriteTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭API服务器失败: %v", err)
	}

	if repo != nil {
		if err := repo.Save(context.Background(), eng.Snapshot()); err != nil {
			log.Printf("保存快照失败: %v", err)
		} else {
			log.Println("💾 快照已保存")
		}
	}

	log.Println("👋 服务已停止")
}
