package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tuannm99/pagedb/internal/storage"
)

const EnvPrefix = "PAGEDB"

type Config struct {
	Storage struct {
		PageSize   int  `mapstructure:"page_size"`
		MaxPages   int  `mapstructure:"max_pages"`
		SyncWrites bool `mapstructure:"sync_writes"`
	} `mapstructure:"storage"`

	Cache struct {
		Enabled bool  `mapstructure:"enabled"`
		MaxRows int64 `mapstructure:"max_rows"`
	} `mapstructure:"cache"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	REPL struct {
		Prompt  string `mapstructure:"prompt"`
		History string `mapstructure:"history"`
	} `mapstructure:"repl"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level": "log.level",
	"history":   "repl.history",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.page_size", storage.DefaultPageSize)
	v.SetDefault("storage.max_pages", storage.DefaultMaxPages)
	v.SetDefault("storage.sync_writes", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_rows", 1024)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("repl.prompt", "db > ")
	v.SetDefault("repl.history", "")
}

// DefaultConfig returns the built-in settings, ignoring file, env and flags.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LoadConfig layers defaults < YAML file (if path != "") < PAGEDB_* env <
// explicitly set flags. flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Cache.Enabled && c.Cache.MaxRows <= 0 {
		return fmt.Errorf("config: cache.max_rows must be positive, got %d", c.Cache.MaxRows)
	}
	if c.Storage.MaxPages <= 0 {
		return fmt.Errorf("config: storage.max_pages must be positive, got %d", c.Storage.MaxPages)
	}
	return nil
}

// StorageOptions maps the storage section onto pager options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		PageSize:   c.Storage.PageSize,
		MaxPages:   c.Storage.MaxPages,
		SyncWrites: c.Storage.SyncWrites,
	}
}
