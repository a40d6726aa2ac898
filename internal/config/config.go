// Package config loads the host configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig holds the spectator websocket settings.
type ServerConfig struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// WebSocketConfig holds the websocket listen settings.
type WebSocketConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// BattleConfig holds presentation settings for the battle scene.
type BattleConfig struct {
	Speed          float64       `mapstructure:"speed"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	MaxStatusSlots int           `mapstructure:"max_status_slots"`
	LogCapacity    int           `mapstructure:"log_capacity"`
	StatusCatalog  string        `mapstructure:"status_catalog"`
}

// DatabaseConfig holds battle report persistence settings. Persistence is
// off unless a URL is configured.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConns        int32         `mapstructure:"max_conns"`
	HealthCheckTime time.Duration `mapstructure:"health_check_time"`
}

// Enabled reports whether report persistence should be wired up.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads the configuration file at path, applying defaults and
// BATTLEUI_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.websocket.enabled", false)
	v.SetDefault("server.websocket.address", ":8081")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("battle.speed", 1.0)
	v.SetDefault("battle.tick_interval", 50*time.Millisecond)
	v.SetDefault("battle.max_status_slots", 6)
	v.SetDefault("battle.log_capacity", 100)
	v.SetDefault("battle.status_catalog", "config/statuses.yaml")
	v.SetDefault("database.url", "")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.health_check_time", time.Minute)

	v.SetEnvPrefix("BATTLEUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults; a malformed one does not.
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Battle.Speed <= 0 {
		return fmt.Errorf("battle.speed must be positive, got %v", c.Battle.Speed)
	}
	if c.Battle.MaxStatusSlots < 1 {
		return fmt.Errorf("battle.max_status_slots must be at least 1, got %d", c.Battle.MaxStatusSlots)
	}
	if c.Battle.TickInterval <= 0 {
		return fmt.Errorf("battle.tick_interval must be positive, got %v", c.Battle.TickInterval)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
