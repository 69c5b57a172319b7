package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"quotaguard/internal/domain/quota"
	sharedConfig "quotaguard/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Quota    sharedConfig.QuotaConfig    `mapstructure:"quota"`
	Burst    sharedConfig.BurstConfig    `mapstructure:"burst"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables. The tier
// table is validated here so that a missing fallback tier is fatal at
// startup, never at request time.
func Load(env string, configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")

	viper.SetEnvPrefix("QUOTAGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := config.TierLimits(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// TierLimits converts the raw tier table into the domain representation,
// mapping the -1 file sentinel to the unbounded variant.
func (c *Config) TierLimits() (quota.TierLimits, error) {
	tiers := make(quota.TierLimits, len(c.Quota.Tiers))
	for tag, tl := range c.Quota.Tiers {
		hourly, err := limitFromValue(tag, "hourly", tl.Hourly)
		if err != nil {
			return nil, err
		}
		daily, err := limitFromValue(tag, "daily", tl.Daily)
		if err != nil {
			return nil, err
		}
		monthly, err := limitFromValue(tag, "monthly", tl.Monthly)
		if err != nil {
			return nil, err
		}
		tiers[tag] = quota.LimitSet{Hourly: hourly, Daily: daily, Monthly: monthly}
	}

	if err := tiers.Validate(); err != nil {
		return nil, err
	}
	return tiers, nil
}

func limitFromValue(tag, period string, v int) (quota.Limit, error) {
	if v < 0 {
		return quota.Unbounded(), nil
	}
	l, err := quota.Finite(v)
	if err != nil {
		return quota.Limit{}, fmt.Errorf("tier %q %s limit: %w", tag, period, err)
	}
	return l, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "quotaguard_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// Quota defaults: the fallback tier must always exist
	viper.SetDefault("quota.tiers.none.hourly", 5)
	viper.SetDefault("quota.tiers.none.daily", 20)
	viper.SetDefault("quota.tiers.none.monthly", 100)
	viper.SetDefault("quota.history_default_limit", 30)

	// Burst limiter defaults
	viper.SetDefault("burst.enabled", false)
	viper.SetDefault("burst.requests_per_minute", 120)
}
