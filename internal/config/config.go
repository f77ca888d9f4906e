package config

import (
	"fmt"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/logger"

	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AdminJWT JWTConfig      `mapstructure:"admin_jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Coupon   CouponConfig   `mapstructure:"coupon"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig holds log output settings.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts to logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig holds connection pool settings.
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig holds async queue settings.
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig holds abuse-protection settings.
type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds a fixed-window request limit.
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// StripeConfig holds payment gateway credentials.
type StripeConfig struct {
	SecretKey        string `mapstructure:"secret_key"`
	WebhookSecret    string `mapstructure:"webhook_secret"`
	APIBaseURL       string `mapstructure:"api_base_url"`
	TimeoutMS        int    `mapstructure:"timeout_ms"`
	ToleranceSeconds int    `mapstructure:"tolerance_seconds"`
}

// PricingConfig holds checkout pricing knobs. Amounts are decimal
// strings so they survive config parsing without float drift.
type PricingConfig struct {
	Currency              string `mapstructure:"currency"`
	TaxRatePercent        string `mapstructure:"tax_rate_percent"`
	DeliveryFee           string `mapstructure:"delivery_fee"`
	FreeDeliveryThreshold string `mapstructure:"free_delivery_threshold"`
}

// CouponConfig holds coupon housekeeping settings.
type CouponConfig struct {
	ExpireSweepMinutes int `mapstructure:"expire_sweep_minutes"`
}

// Load reads config.yml plus environment overrides.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "freshcart.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/freshcart.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("admin_jwt.secret", "admin-change-me-in-production")
	viper.SetDefault("admin_jwt.expire_hours", 24)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "fc")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("security.rate_limit.window_seconds", 60)
	viper.SetDefault("security.rate_limit.max_requests", 120)
	viper.SetDefault("stripe.secret_key", "")
	viper.SetDefault("stripe.webhook_secret", "")
	viper.SetDefault("stripe.api_base_url", "https://api.stripe.com")
	viper.SetDefault("stripe.timeout_ms", 10000)
	viper.SetDefault("stripe.tolerance_seconds", 300)
	viper.SetDefault("pricing.currency", "INR")
	viper.SetDefault("pricing.tax_rate_percent", "5")
	viper.SetDefault("pricing.delivery_fee", "40")
	viper.SetDefault("pricing.free_delivery_threshold", "500")
	viper.SetDefault("coupon.expire_sweep_minutes", 60)

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config unmarshal failed: %w", err))
	}

	return &cfg
}
