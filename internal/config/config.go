// Package config resolves guidebot settings from flags, environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/guidebot/pkg/runner"
)

// EnvPrefix namespaces environment variables, e.g. GUIDEBOT_LOG_LEVEL.
const EnvPrefix = "GUIDEBOT"

// Keys shared by flags, environment and config file.
const (
	KeyLogLevel        = "log-level"
	KeyGraphDir        = "graph-dir"
	KeyPacing          = "pacing"
	KeyAddr            = "addr"
	KeyMaxInputSize    = "max-input-size"
	KeyFallbackMessage = "fallback-message"
	KeyConfigFile      = "config"
)

// Defaults.
const (
	DefaultPacing = 800 * time.Millisecond
	DefaultAddr   = ":8080"
)

// Config is the resolved runtime configuration.
type Config struct {
	LogLevel        string        `mapstructure:"log-level"`
	GraphDir        string        `mapstructure:"graph-dir"`
	Pacing          time.Duration `mapstructure:"pacing"`
	Addr            string        `mapstructure:"addr"`
	MaxInputSize    int           `mapstructure:"max-input-size"`
	FallbackMessage string        `mapstructure:"fallback-message"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyGraphDir, "")
	v.SetDefault(KeyPacing, DefaultPacing)
	v.SetDefault(KeyAddr, DefaultAddr)
	v.SetDefault(KeyMaxInputSize, runner.DefaultMaxInputSize)
	v.SetDefault(KeyFallbackMessage, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration. Precedence is flag, environment, config file, default.
// flags may be nil; only flags whose names match a key are bound.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := New()

	if flags != nil {
		for _, key := range []string{KeyLogLevel, KeyGraphDir, KeyPacing, KeyAddr, KeyMaxInputSize, KeyFallbackMessage, KeyConfigFile} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Pacing < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %s", KeyPacing, c.Pacing))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyMaxInputSize, c.MaxInputSize))
	}
	return errors.Join(errs...)
}
