// Package config loads toolprompts settings from a YAML file and the
// environment. Every key can be overridden with a TOOLPROMPTS_ variable,
// e.g. TOOLPROMPTS_SERVER_ADDR.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "TOOLPROMPTS"

// ErrInvalidConfig is returned when a loaded config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full set of settings.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Search  SearchConfig  `mapstructure:"search"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig controls the MCP server.
type ServerConfig struct {
	Name      string `mapstructure:"name"`
	Version   string `mapstructure:"version"`
	Transport string `mapstructure:"transport"`
	Addr      string `mapstructure:"addr"`
	// SDK serves through the go-sdk server instead of the built-in JSON-RPC handler.
	SDK bool `mapstructure:"sdk"`
}

// CatalogConfig points at the YAML prompt catalog.
type CatalogConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// SearchConfig tunes prompt search.
type SearchConfig struct {
	MaxResults int     `mapstructure:"max_results"`
	NameBoost  float64 `mapstructure:"name_boost"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var transports = map[string]bool{"stdio": true, "http": true, "sse": true}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Name:      "toolprompts",
			Version:   "dev",
			Transport: "stdio",
			Addr:      ":8080",
		},
		Search: SearchConfig{
			MaxResults: 20,
			NameBoost:  2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config file at path, if any, and applies environment
// overrides. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the server depends on.
func (c Config) Validate() error {
	if !transports[c.Server.Transport] {
		return fmt.Errorf("%w: unsupported transport %q", ErrInvalidConfig, c.Server.Transport)
	}
	if c.Server.Transport != "stdio" && strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is required for %s transport", ErrInvalidConfig, c.Server.Transport)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("%w: search.max_results must not be negative", ErrInvalidConfig)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	def := Default()

	v.SetDefault("server.name", def.Server.Name)
	v.SetDefault("server.version", def.Server.Version)
	v.SetDefault("server.transport", def.Server.Transport)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.sdk", def.Server.SDK)
	v.SetDefault("catalog.path", def.Catalog.Path)
	v.SetDefault("catalog.watch", def.Catalog.Watch)
	v.SetDefault("search.max_results", def.Search.MaxResults)
	v.SetDefault("search.name_boost", def.Search.NameBoost)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
