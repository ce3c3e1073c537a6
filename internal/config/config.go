package config

import (
	"time"

	"github.com/maxviazov/edge-client/internal/logger"
)

type Config struct {
	Logger logger.LoggerConfig `mapstructure:"logger"`
	Edge   EdgeConfig          `mapstructure:"edge"`
}

// EdgeConfig describes the management API connection.
type EdgeConfig struct {
	Endpoint     string            `mapstructure:"endpoint" validate:"required,url"`
	Organization string            `mapstructure:"organization" validate:"required"`
	Timeout      time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	PageSize     int               `mapstructure:"page_size" validate:"gte=0"`
	RateLimit    float64           `mapstructure:"rate_limit" validate:"gte=0"`
	Burst        int               `mapstructure:"burst" validate:"gte=0"`
	Headers      map[string]string `mapstructure:"headers"`
}
