// Package config resolves strobf settings from flags, STROBF_* environment
// variables, an optional YAML file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/AeonDave/strobf/internal/logging"
	"github.com/AeonDave/strobf/internal/span"
)

// FileName is looked up in the working directory when no explicit config
// file is given.
const FileName = ".strobf.yaml"

// EnvPrefix prefixes the environment variable of every key.
const EnvPrefix = "STROBF"

var ErrInvalidTimeout = errors.New("match_timeout must be positive")

type Config struct {
	Salt         string        `mapstructure:"salt" yaml:"salt"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	LogJSON      bool          `mapstructure:"log_json" yaml:"log_json"`
	MatchTimeout time.Duration `mapstructure:"match_timeout" yaml:"match_timeout"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"config_file,omitempty"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"salt":          "salt",
	"log-level":     "log_level",
	"log-json":      "log_json",
	"match-timeout": "match_timeout",
}

var defaults = map[string]any{
	"salt":          "",
	"log_level":     logging.DefaultLevel,
	"log_json":      false,
	"match_timeout": span.DefaultMatchTimeout,
}

// Load resolves the configuration. path names an explicit config file; when
// empty, FileName in the working directory is read if it exists. Flags in fs
// that were set on the command line override everything else.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %q: %w", name, err)
				}
			}
		}
	}

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".strobf")
		v.AddConfigPath(".")
	}
	read := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		read = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if read {
		cfg.File = v.ConfigFileUsed()
	}
	if cfg.MatchTimeout <= 0 {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidTimeout, cfg.MatchTimeout)
	}
	return &cfg, nil
}

// YAML renders cfg the way it would be written to a config file.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
