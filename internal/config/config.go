package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds top-level application configuration groups.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Parser  ParserConfig  `mapstructure:"parser"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	MaxUploadMB    int64         `mapstructure:"max_upload_mb"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout"`
}

type ParserConfig struct {
	DefaultProvider string `mapstructure:"default_provider"`
}

// StoreConfig selects where finished extractions live and how long.
type StoreConfig struct {
	Backend         string        `mapstructure:"backend"` // memory|fs|redis
	DataRoot        string        `mapstructure:"data_root"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
	File   string `mapstructure:"file"`

	// Rotation of File.
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

const envPrefix = "PROTOCOL_EXTRACT"

// Load reads configuration from defaults, an optional config.yaml and the
// environment (PROTOCOL_EXTRACT_SERVER_PORT, ...). A bare PORT is honoured too.
func Load() (*Config, error) {
	return load(viper.New(), true)
}

func load(v *viper.Viper, searchFiles bool) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "PORT")

	if searchFiles {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/protocol-extract")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.max_upload_mb", 64)
	v.SetDefault("server.process_timeout", "60s")

	v.SetDefault("parser.default_provider", "guarida")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.data_root", "./extractions")
	v.SetDefault("store.ttl", "24h")
	v.SetDefault("store.cleanup_interval", "10m")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "protocol-extract:")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 0)
	v.SetDefault("logging.compress", false)
}

// Validate ensures critical configuration values are present.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server max_upload_mb must be positive")
	}
	if c.Server.ProcessTimeout <= 0 {
		return fmt.Errorf("server process_timeout must be positive")
	}
	switch c.Store.Backend {
	case "memory", "fs", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.TTL <= 0 || c.Store.CleanupInterval <= 0 {
		return fmt.Errorf("store ttl and cleanup_interval must be positive")
	}
	if c.Store.Backend == "fs" && c.Store.DataRoot == "" {
		return fmt.Errorf("store data_root cannot be empty for the fs backend")
	}
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging max_size_mb must be positive and backups/age non-negative")
	}
	if c.Store.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty for the redis backend")
	}
	return nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}
