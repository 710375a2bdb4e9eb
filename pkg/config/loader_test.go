package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTempConfig 把配置内容写入临时文件并返回路径
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

// TestLoad_MissingFile 测试文件不存在时返回默认配置
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("文件不存在不应报错: %v", err)
	}
	if cfg.Mode != "dev" || cfg.Server.Port != 8080 {
		t.Errorf("应返回默认配置: %+v", cfg)
	}
}

// TestLoad_OverridesDefaults 测试配置文件覆盖默认值，未配置的字段保留默认
func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
mode: release
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 10
  write_timeout: 10
storage:
  enabled: true
  type: sqlite
  dsn: ./test.db
dispatcher:
  enabled: true
  cron: "*/10 * * * * *"
  agents:
    - agent-a
    - agent-b
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Mode != "release" {
		t.Errorf("mode不匹配: %s", cfg.Mode)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server配置不匹配: %+v", cfg.Server)
	}
	if !cfg.Storage.Enabled || cfg.Storage.Type != "sqlite" {
		t.Errorf("storage配置不匹配: %+v", cfg.Storage)
	}
	if len(cfg.Dispatcher.Agents) != 2 {
		t.Errorf("agents配置不匹配: %v", cfg.Dispatcher.Agents)
	}
	// 未配置的字段保留默认值
	if cfg.Events.Buffer != 256 {
		t.Errorf("events.buffer应保留默认值: %d", cfg.Events.Buffer)
	}
}

// TestLoad_InvalidYAML 测试非法YAML报错
func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "mode: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("非法YAML应报错")
	}
}

// TestValidate 测试各项校验规则
func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"默认配置合法", func(c *Config) {}, true},
		{"非法mode", func(c *Config) { c.Mode = "prod" }, false},
		{"端口为0", func(c *Config) { c.Server.Port = 0 }, false},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, false},
		{"超时为0", func(c *Config) { c.Server.ReadTimeout = 0 }, false},
		{"启用存储但类型非法", func(c *Config) {
			c.Storage.Enabled = true
			c.Storage.Type = "oracle"
			c.Storage.DSN = "dsn"
		}, false},
		{"启用存储但DSN为空", func(c *Config) {
			c.Storage.Enabled = true
			c.Storage.Type = "sqlite"
		}, false},
		{"启用存储且配置完整", func(c *Config) {
			c.Storage.Enabled = true
			c.Storage.Type = "postgres"
			c.Storage.DSN = "postgres://localhost/tasks"
		}, true},
		{"启用分配器但Cron非法", func(c *Config) {
			c.Dispatcher.Enabled = true
			c.Dispatcher.Cron = "bad"
			c.Dispatcher.Agents = []string{"agent-1"}
		}, false},
		{"启用分配器但无Agent", func(c *Config) {
			c.Dispatcher.Enabled = true
		}, false},
		{"启用分配器且配置完整", func(c *Config) {
			c.Dispatcher.Enabled = true
			c.Dispatcher.Agents = []string{"agent-1"}
		}, true},
		{"事件缓冲区为负", func(c *Config) { c.Events.Buffer = -1 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			if tc.ok && err != nil {
				t.Errorf("不应报错: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("应报错")
			}
		})
	}
}
