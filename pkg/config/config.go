// Package config loads settings from flags, GML_* environment variables and
// an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const prefix = "GML"

// Keys. Flags use the same names with dashes instead of underscores.
const (
	KeyHost      = "host"
	KeyPort      = "port"
	KeyLogLevel  = "log_level"
	KeyStepLimit = "step_limit"

	KeyMaxStringLength = "max_string_length"
)

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = 8790
	defaultLogLevel  = "info"
	defaultStepLimit = 0

	defaultMaxStringLength = 16 << 20
)

// Config holds the resolved settings.
type Config struct {
	Host      string
	Port      int
	LogLevel  string
	StepLimit int
	// MaxStringLength caps strings built by scripts, in bytes. 0 disables it.
	MaxStringLength int
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load resolves the configuration. flags may be nil; configFile may be
// empty.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHost, defaultHost)
	v.SetDefault(KeyPort, defaultPort)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyStepLimit, defaultStepLimit)
	v.SetDefault(KeyMaxStringLength, defaultMaxStringLength)

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			zap.S().Errorw("cannot read config file", "config file", configFile, "error", err)
			return nil, fmt.Errorf("fail to read config file: %w", err)
		}
		zap.S().Infof("using config file: %v", v.ConfigFileUsed())
	}

	if flags != nil {
		if err := bindFlags(flags, v); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Host:      v.GetString(KeyHost),
		Port:      v.GetInt(KeyPort),
		LogLevel:  v.GetString(KeyLogLevel),
		StepLimit: v.GetInt(KeyStepLimit),

		MaxStringLength: v.GetInt(KeyMaxStringLength),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.StepLimit < 0 {
		return nil, fmt.Errorf("invalid step limit %d", cfg.StepLimit)
	}
	if cfg.MaxStringLength < 0 {
		return nil, fmt.Errorf("invalid max string length %d", cfg.MaxStringLength)
	}
	return cfg, nil
}

// bindFlags binds every known key to its flag, when the command defines it.
// Unset flags fall through to the environment, the file and the defaults.
func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	for _, key := range []string{KeyHost, KeyPort, KeyLogLevel, KeyStepLimit, KeyMaxStringLength} {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("cannot bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}
