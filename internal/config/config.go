// Package config загружает настройки хаба и клиента из YAML-файла,
// переменных окружения PREFKEEPER_* и флагов командной строки.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iudanet/prefkeeper/internal/logging"
)

// EnvPrefix префикс переменных окружения: server.address -> PREFKEEPER_SERVER_ADDRESS.
const EnvPrefix = "PREFKEEPER"

// Драйверы хранилища хаба.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Режимы сжатия тел запросов.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SyncConfig contains wire settings shared by hub and client
type SyncConfig struct {
	Compression string `mapstructure:"compression"`
}

// ServerConfig is the hub configuration
type ServerConfig struct {
	Log     LogConfig     `mapstructure:"log"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  HTTPConfig    `mapstructure:"server"`
}

// HTTPConfig contains HTTP listener settings
type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ReplicaID       string        `mapstructure:"replica_id"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects and configures the hub document store
type StorageConfig struct {
	Driver string       `mapstructure:"driver"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SQLiteConfig contains sqlite settings
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig contains redis settings
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Prefix   string `mapstructure:"prefix"`
	DB       int    `mapstructure:"db"`
}

// ClientConfig is the local replica configuration
type ClientConfig struct {
	Log    LogConfig     `mapstructure:"log"`
	Sync   SyncConfig    `mapstructure:"sync"`
	Client ReplicaConfig `mapstructure:"client"`
}

// ReplicaConfig contains local replica settings
type ReplicaConfig struct {
	ServerURL  string        `mapstructure:"server_url"`
	DBPath     string        `mapstructure:"db_path"`
	Document   string        `mapstructure:"document"`
	HubID      string        `mapstructure:"hub_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries uint64        `mapstructure:"max_retries"`
	Encrypt    bool          `mapstructure:"encrypt"`
}

// ClientFlags связывает ключи конфигурации клиента с именами флагов CLI.
var ClientFlags = map[string]string{
	"client.server_url":  "server",
	"client.db_path":     "db",
	"client.document":    "document",
	"client.encrypt":     "encrypt",
	"client.timeout":     "timeout",
	"client.max_retries": "max-retries",
	"log.level":          "log-level",
	"log.format":         "log-format",
	"sync.compression":   "compression",
}

// ServerFlags связывает ключи конфигурации хаба с именами флагов.
var ServerFlags = map[string]string{
	"server.address":        "address",
	"server.replica_id":     "replica-id",
	"storage.driver":        "storage",
	"storage.sqlite.path":   "sqlite-path",
	"storage.redis.address": "redis-address",
	"log.level":             "log-level",
	"log.format":            "log-format",
	"sync.compression":      "compression",
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)
	v.SetDefault("sync.compression", CompressionNone)
	return v
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.replica_id", "hub")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite.path", "prefkeeper.db")
	v.SetDefault("storage.redis.address", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "prefkeeper")
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.db_path", "prefkeeper-client.db")
	v.SetDefault("client.document", "preferences")
	v.SetDefault("client.hub_id", "hub")
	v.SetDefault("client.encrypt", false)
	v.SetDefault("client.timeout", "30s")
	v.SetDefault("client.max_retries", 3)
}

// LoadServer loads the hub configuration. An empty path means defaults and
// environment only; flags may be nil.
func LoadServer(path string, flags *pflag.FlagSet) (*ServerConfig, error) {
	v := newViper(path)
	setServerDefaults(v)

	var cfg ServerConfig
	if err := load(v, path, flags, ServerFlags, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient loads the client configuration. Flags explicitly set on the
// command line override the file and the environment.
func LoadClient(path string, flags *pflag.FlagSet) (*ClientConfig, error) {
	v := newViper(path)
	setClientDefaults(v)

	var cfg ClientConfig
	if err := load(v, path, flags, ClientFlags, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(v *viper.Viper, path string, flags *pflag.FlagSet, bindings map[string]string, out any) error {
	if flags != nil {
		for key, name := range bindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
	}

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// Validate checks the hub configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server.address is required", ErrInvalidConfig)
	}
	if c.Server.ReplicaID == "" {
		return fmt.Errorf("%w: server.replica_id is required", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("%w: storage.sqlite.path is required", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.Storage.Redis.Address == "" {
			return fmt.Errorf("%w: storage.redis.address is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if err := c.Log.validate(); err != nil {
		return err
	}
	return c.Sync.validate()
}

// Validate checks the client configuration
func (c *ClientConfig) Validate() error {
	if c.Client.ServerURL == "" {
		return fmt.Errorf("%w: client.server_url is required", ErrInvalidConfig)
	}
	if c.Client.DBPath == "" {
		return fmt.Errorf("%w: client.db_path is required", ErrInvalidConfig)
	}
	if c.Client.Document == "" {
		return fmt.Errorf("%w: client.document is required", ErrInvalidConfig)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("%w: client.timeout must be positive", ErrInvalidConfig)
	}

	if err := c.Log.validate(); err != nil {
		return err
	}
	return c.Sync.validate()
}

func (c LogConfig) validate() error {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := logging.ValidateFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c SyncConfig) validate() error {
	switch c.Compression {
	case "", CompressionNone, CompressionZstd:
		return nil
	default:
		return fmt.Errorf("%w: unknown sync.compression %q", ErrInvalidConfig, c.Compression)
	}
}

// Zstd reports whether zstd compression is enabled.
func (c SyncConfig) Zstd() bool {
	return c.Compression == CompressionZstd
}
