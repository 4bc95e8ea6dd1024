package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Calendar.UTCOffset != "+08:00" {
		t.Errorf("Calendar.UTCOffset = %q, want %q", cfg.Calendar.UTCOffset, "+08:00")
	}
	if cfg.Calendar.Offset() != 8*time.Hour {
		t.Errorf("Offset() = %v, want 8h", cfg.Calendar.Offset())
	}
	if !cfg.Rewards.PrivilegeAccrual || cfg.Rewards.PrivilegeBucket != 100 {
		t.Errorf("Rewards = %+v", cfg.Rewards)
	}
	if cfg.Sweep.IntervalMinutes != 0 || cfg.Sweep.Interval() != 0 {
		t.Errorf("Sweep = %+v, want background sweeper off", cfg.Sweep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starcoin.toml")
	data := `
[server]
port = 9090

[calendar]
utc_offset = "-05:00"

[rewards]
privilege_accrual = false
privilege_bucket = 50

[logging]
format = "json"

[sweep]
interval_minutes = 30
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Calendar.Offset() != -5*time.Hour {
		t.Errorf("Offset() = %v, want -5h", cfg.Calendar.Offset())
	}
	if cfg.Rewards.PrivilegeAccrual || cfg.Rewards.PrivilegeBucket != 50 {
		t.Errorf("Rewards = %+v", cfg.Rewards)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Sweep.Interval() != 30*time.Minute {
		t.Errorf("Sweep.Interval() = %v, want 30m", cfg.Sweep.Interval())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STARCOIN_PORT":       "7000",
		"STARCOIN_DB_PATH":    "/var/lib/starcoin.db",
		"STARCOIN_LOG_LEVEL":  "debug",
		"STARCOIN_UTC_OFFSET": "UTC",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Server.Port != 7000 || cfg.Database.Path != "/var/lib/starcoin.db" ||
		cfg.Logging.Level != "debug" || cfg.Calendar.UTCOffset != "UTC" {
		t.Errorf("cfg = %+v", cfg)
	}

	env["STARCOIN_PORT"] = "seventy"
	if err := applyEnv(&cfg, lookup); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad offset", func(c *Config) { c.Calendar.UTCOffset = "+25:00" }, "utc_offset"},
		{"bad bucket", func(c *Config) { c.Rewards.PrivilegeBucket = 0 }, "privilege_bucket"},
		{"no db path", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}
