package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"automacorp-client/internal/domain/model"
)

// Config is the full runtime configuration, loadable from config.yaml and
// overridable through AUTOMACORP_* environment variables.
type Config struct {
	API struct {
		BaseURL      string `mapstructure:"base_url"`
		Username     string `mapstructure:"username"`
		Password     string `mapstructure:"password"`
		Timeout      int    `mapstructure:"timeout"` // seconds
		InsecureHost string `mapstructure:"insecure_host"`
	} `mapstructure:"api"`
	Mock struct {
		Rooms  int    `mapstructure:"rooms"`
		Listen string `mapstructure:"listen"`
	} `mapstructure:"mock"`
	Temperature struct {
		// the detail and editor screens historically disagree on the valid
		// range; both are kept configurable rather than silently unified
		Detail model.TemperatureBounds `mapstructure:"detail"`
		Editor model.TemperatureBounds `mapstructure:"editor"`
	} `mapstructure:"temperature"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}

// Load reads config.yaml from the working directory when present, applies
// defaults and environment overrides, and returns the typed configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("api.base_url", "https://automacorp.devmind.cleverapps.io/api")
	v.SetDefault("api.username", "user")
	v.SetDefault("api.password", "password")
	v.SetDefault("api.timeout", 30)
	v.SetDefault("api.insecure_host", "")
	v.SetDefault("mock.rooms", 50)
	v.SetDefault("mock.listen", ":8090")
	v.SetDefault("temperature.detail.min", 0.0)
	v.SetDefault("temperature.detail.max", 30.0)
	v.SetDefault("temperature.editor.min", 10.0)
	v.SetDefault("temperature.editor.max", 28.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix("automacorp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
