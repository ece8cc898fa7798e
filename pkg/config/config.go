// Package config provides a reusable loader for in3go's process bootstrap
// configuration and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"in3go/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the process-level bootstrap configuration: everything decided
// before a *core.Client exists. Runtime, per-client options (proof mode,
// request count, chain selection, ...) belong to core.Configure's JSON
// document instead (SPEC_FULL.md §2.3).
type Config struct {
	Client struct {
		DefaultChain string `mapstructure:"default_chain" json:"default_chain"`
	} `mapstructure:"client" json:"client"`

	Cache struct {
		Capacity int `mapstructure:"capacity" json:"capacity"`
	} `mapstructure:"cache" json:"cache"`

	Transport struct {
		TimeoutMS int `mapstructure:"timeout_ms" json:"timeout_ms"`
	} `mapstructure:"transport" json:"transport"`

	Server struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"server" json:"server"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("IN3GO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // picks up IN3GO_* overrides loaded from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the IN3GO_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("IN3GO_ENV", ""))
}
