package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TierLimitConfig holds the per-period caps for one subscription tier as
// written in the config file. A value of -1 means unlimited; the sentinel
// exists only at the YAML boundary and is converted to the tagged domain
// limit at load time.
type TierLimitConfig struct {
	Hourly  int `mapstructure:"hourly"`
	Daily   int `mapstructure:"daily"`
	Monthly int `mapstructure:"monthly"`
}

// QuotaConfig configures the quota engine.
type QuotaConfig struct {
	// Tiers maps entitlement tags to their limits. The "none" key is
	// mandatory; loading fails without it.
	Tiers map[string]TierLimitConfig `mapstructure:"tiers"`
	// HistoryDefaultLimit caps history listings when the caller does not
	// specify one.
	HistoryDefaultLimit int `mapstructure:"history_default_limit"`
}

// BurstConfig configures the redis transport-level burst limiter that sits
// in front of the durable quota counters.
type BurstConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}
