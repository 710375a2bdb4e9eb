package config

// Config 服务进程配置（对外导出）
type Config struct {
	Mode   string `yaml:"mode"` // dev/release
	Server struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		ReadTimeout  int    `yaml:"read_timeout"`  // 秒
		WriteTimeout int    `yaml:"write_timeout"` // 秒
	} `yaml:"server"`
	Storage struct {
		Enabled bool   `yaml:"enabled"` // 是否启用快照持久化
		Type    string `yaml:"type"`    // sqlite/mysql/postgres
		DSN     string `yaml:"dsn"`
	} `yaml:"storage"`
	Dispatcher struct {
		Enabled bool     `yaml:"enabled"` // 是否启用定时分配
		Cron    string   `yaml:"cron"`    // 六段Cron表达式（支持秒级）
		Agents  []string `yaml:"agents"`  // 可分配的Agent ID列表
	} `yaml:"dispatcher"`
	Events struct {
		Buffer int  `yaml:"buffer"` // 订阅者通道缓冲区大小
		Debug  bool `yaml:"debug"`  // 是否输出watermill调试日志
	} `yaml:"events"`
}

// Default 默认配置（对外导出）
func Default() *Config {
	cfg := &Config{Mode: "dev"}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 30
	cfg.Server.WriteTimeout = 30
	cfg.Dispatcher.Cron = "*/5 * * * * *"
	cfg.Events.Buffer = 256
	return cfg
}
