package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate 校验配置合法性（对外导出）
func Validate(cfg *Config) error {
	switch cfg.Mode {
	case "dev", "release":
	default:
		return fmt.Errorf("mode必须为dev或release，当前为 %q", cfg.Mode)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("端口号非法: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("超时时间必须为正数")
	}

	if cfg.Storage.Enabled {
		switch cfg.Storage.Type {
		case "sqlite", "mysql", "postgres", "postgresql":
		default:
			return fmt.Errorf("不支持的数据库类型: %q", cfg.Storage.Type)
		}
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("启用快照持久化时必须配置dsn")
		}
	}

	if cfg.Dispatcher.Enabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(cfg.Dispatcher.Cron); err != nil {
			return fmt.Errorf("分配器Cron表达式非法 %q: %w", cfg.Dispatcher.Cron, err)
		}
		if len(cfg.Dispatcher.Agents) == 0 {
			return fmt.Errorf("启用分配器时必须配置至少一个Agent")
		}
	}

	if cfg.Events.Buffer < 0 {
		return fmt.Errorf("事件缓冲区大小不能为负数: %d", cfg.Events.Buffer)
	}

	return nil
}
