package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/florarie-simona/internal/constants"
	"github.com/florarie-simona/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Session  SessionConfig  `mapstructure:"session"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Shop     ShopConfig     `mapstructure:"shop"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// SessionConfig 购物会话配置
type SessionConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	IdleMinutes int    `mapstructure:"idle_minutes"`
}

// IdleTimeout 会话空闲回收时间
func (c SessionConfig) IdleTimeout() time.Duration {
	if c.IdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.IdleMinutes) * time.Minute
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	SessionRateLimit RateLimitConfig `mapstructure:"session_rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// ShopConfig 购物车/心愿单引擎配置
type ShopConfig struct {
	Storage           string         `mapstructure:"storage"` // database / redis / memory
	ExpireDays        int            `mapstructure:"expire_days"`
	NotifyNoopRemoval bool           `mapstructure:"notify_noop_removal"`
	Shipping          ShippingConfig `mapstructure:"shipping"`
	Notify            NotifyConfig   `mapstructure:"notify"`
}

// EnvelopeTTL 本地状态过期时间
func (c ShopConfig) EnvelopeTTL() time.Duration {
	days := c.ExpireDays
	if days <= 0 {
		days = constants.DefaultEnvelopeExpireDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// ShippingConfig 运费策略配置
type ShippingConfig struct {
	FlatCost   int64    `mapstructure:"flat_cost"`   // 固定运费（bani）
	FreeCities []string `mapstructure:"free_cities"` // 免运费地区
}

// NotifyConfig 通知配置
type NotifyConfig struct {
	Transport string `mapstructure:"transport"` // direct / queue
	Buffer    int    `mapstructure:"buffer"`
	FeedLimit int    `mapstructure:"feed_limit"`
	FeedTTL   int    `mapstructure:"feed_ttl_seconds"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // 从当前目录查找
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	cfg, err := LoadFrom(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(err)
	}
	return cfg
}

// LoadFrom 基于给定的 viper 实例加载配置（便于测试注入）
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// 环境变量支持
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // shop.expire_days -> SHOP_EXPIRE_DAYS

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "shop.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/shop.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "fs")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		constants.QueueDefault: 1,
	})
	v.SetDefault("session.secret", "change-me-in-production")
	v.SetDefault("session.expire_hours", 24*constants.DefaultEnvelopeExpireDays)
	v.SetDefault("session.idle_minutes", 30)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.session_rate_limit.window_seconds", 60)
	v.SetDefault("security.session_rate_limit.max_requests", 20)
	v.SetDefault("shop.storage", constants.ShopStorageDatabase)
	v.SetDefault("shop.expire_days", constants.DefaultEnvelopeExpireDays)
	v.SetDefault("shop.notify_noop_removal", false)
	v.SetDefault("shop.shipping.flat_cost", constants.DefaultShippingFlatCost)
	v.SetDefault("shop.shipping.free_cities", constants.DefaultFreeDeliveryCities)
	v.SetDefault("shop.notify.transport", constants.NotifyTransportDirect)
	v.SetDefault("shop.notify.buffer", 256)
	v.SetDefault("shop.notify.feed_limit", 50)
	v.SetDefault("shop.notify.feed_ttl_seconds", 3600)
}
