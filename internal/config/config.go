// Package config loads starcoin settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/dukerupert/starcoin/internal/calendar"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Calendar CalendarConfig `toml:"calendar"`
	Rewards  RewardsConfig  `toml:"rewards"`
	Sweep    SweepConfig    `toml:"sweep"`
	Logging  LoggingConfig  `toml:"logging"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `toml:"idle_timeout_seconds"`
	// SubmitRatePerMinute caps submissions per member. Zero disables it.
	SubmitRatePerMinute int `toml:"submit_rate_per_minute"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CalendarConfig fixes the offset every day key is computed in.
type CalendarConfig struct {
	UTCOffset string `toml:"utc_offset"`
}

// Offset parses UTCOffset. Call Validate first.
func (c CalendarConfig) Offset() time.Duration {
	d, _ := calendar.ParseOffset(c.UTCOffset)
	return d
}

type RewardsConfig struct {
	PrivilegeAccrual bool `toml:"privilege_accrual"`
	PrivilegeBucket  int  `toml:"privilege_bucket"`
}

// SweepConfig controls the optional background auto-approval sweep. It is
// off by default; dashboard loads sweep on their own.
type SweepConfig struct {
	IntervalMinutes int `toml:"interval_minutes"`
}

func (s SweepConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			IdleTimeoutSeconds:  60,
			SubmitRatePerMinute: 30,
		},
		Database: DatabaseConfig{Path: "starcoin.db"},
		Calendar: CalendarConfig{UTCOffset: "+08:00"},
		Rewards: RewardsConfig{
			PrivilegeAccrual: true,
			PrivilegeBucket:  100,
		},
		Sweep:   SweepConfig{IntervalMinutes: 0},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// Load decodes path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file means defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("stat config: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("STARCOIN_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STARCOIN_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup("STARCOIN_DB_PATH"); ok && v != "" {
		cfg.Database.Path = v
	}
	if v, ok := lookup("STARCOIN_LOG_LEVEL"); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup("STARCOIN_UTC_OFFSET"); ok && v != "" {
		cfg.Calendar.UTCOffset = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if _, err := calendar.ParseOffset(c.Calendar.UTCOffset); err != nil {
		errs = append(errs, fmt.Errorf("calendar.utc_offset: %w", err))
	}
	if c.Rewards.PrivilegeBucket <= 0 {
		errs = append(errs, fmt.Errorf("rewards.privilege_bucket must be positive, got %d", c.Rewards.PrivilegeBucket))
	}
	if c.Sweep.IntervalMinutes < 0 {
		errs = append(errs, errors.New("sweep.interval_minutes must not be negative"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}
	return errors.Join(errs...)
}
