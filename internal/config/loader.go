package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/maxviazov/edge-client/pkg/edge"
)

// EnvPrefix prefixes every environment override, e.g. EDGECTL_EDGE_ORGANIZATION.
const EnvPrefix = "EDGECTL"

// Option adjusts the viper instance before the configuration is read.
type Option func(*viper.Viper) error

// WithFlag binds a command-line flag to key. A flag set by the user wins over
// the environment and the file.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return fmt.Errorf("no flag bound to %q", key)
		}
		return v.BindPFlag(key, flag)
	}
}

// Load reads the YAML file at path, when given, and applies environment
// overrides on top of it.
func Load(path string, opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(config.Edge); err != nil {
		return nil, fmt.Errorf("edge config validation error: %w", err)
	}
	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal even when the file does not mention it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("edge.endpoint", edge.DefaultEndpoint)
	v.SetDefault("edge.organization", "")
	v.SetDefault("edge.timeout", "30s")
	v.SetDefault("edge.page_size", 0)
	v.SetDefault("edge.rate_limit", 0)
	v.SetDefault("edge.burst", 1)
	v.SetDefault("edge.headers", map[string]string{})

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.format", "")
	v.SetDefault("logger.output_target", "")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.time_field", "")
	v.SetDefault("logger.time_format", "")
	v.SetDefault("logger.service_name", "")
	v.SetDefault("logger.service_version", "")
	v.SetDefault("logger.env", "")
	v.SetDefault("logger.with_caller", false)
	v.SetDefault("logger.stacktrace", false)
	v.SetDefault("logger.stacktrace_min_level", "")
}
