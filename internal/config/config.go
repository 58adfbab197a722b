// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// ServerConfig configures the websocket listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// GameConfig overrides the default game parameters.
type GameConfig struct {
	StartingLife  int `mapstructure:"starting_life"`
	HandSizeLimit int `mapstructure:"hand_size_limit"`
	LandLimit     int `mapstructure:"land_limit"`
}

// Load reads the configuration file at path, if present, applies DUEL_*
// environment overrides and validates the result. An empty path loads
// defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.starting_life", 20)
	v.SetDefault("game.hand_size_limit", 7)
	v.SetDefault("game.land_limit", 1)

	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr must not be empty")
	}
	if c.Game.StartingLife <= 0 {
		return fmt.Errorf("config: game.starting_life must be positive, got %d", c.Game.StartingLife)
	}
	if c.Game.HandSizeLimit <= 0 {
		return fmt.Errorf("config: game.hand_size_limit must be positive, got %d", c.Game.HandSizeLimit)
	}
	if c.Game.LandLimit <= 0 {
		return fmt.Errorf("config: game.land_limit must be positive, got %d", c.Game.LandLimit)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
