package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"go.pilab.hu/tokenstore"
	"go.pilab.hu/tokenstore/codec"
)

// Storage backends.
const (
	StoreMemory  = "memory"
	StoreBolt    = "bbolt"
	StoreMongoDB = "mongodb"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the token store and its tooling.
// Tags use mapstructure for Viper unmarshalling.
type Config struct {
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	BoltPath     string `mapstructure:"BBOLT_PATH"`
	MongoURI     string `mapstructure:"MONGO_URI"`
	MongoDBName  string `mapstructure:"MONGO_DB_NAME"`

	CacheBackend  string        `mapstructure:"CACHE_BACKEND"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RedisPrefix   string        `mapstructure:"REDIS_PREFIX"`

	TokenHashAlgorithm string `mapstructure:"TOKEN_HASH_ALGORITHM"`
	BlobCodec          string `mapstructure:"BLOB_CODEC"`

	LogLevel        string `mapstructure:"LOG_LEVEL"`
	LogPretty       bool   `mapstructure:"LOG_PRETTY"`
	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

var keys = []string{
	"STORE_BACKEND", "BBOLT_PATH", "MONGO_URI", "MONGO_DB_NAME",
	"CACHE_BACKEND", "CACHE_TTL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
	"TOKEN_HASH_ALGORITHM", "BLOB_CODEC",
	"LOG_LEVEL", "LOG_PRETTY", "OTEL_SERVICE_NAME",
}

// LoadConfig reads configuration from file, environment variables, and
// defaults. A .env file in the working directory is loaded first when
// present. configFile overrides the search paths when not empty.
func LoadConfig(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tokenstore")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/tokenstore/")
		v.AddConfigPath("$HOME/.tokenstore")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.SetDefault("STORE_BACKEND", StoreBolt)
	v.SetDefault("BBOLT_PATH", "data/tokens.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "tokenstore")
	v.SetDefault("CACHE_BACKEND", CacheNone)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "tokenstore")
	v.SetDefault("TOKEN_HASH_ALGORITHM", "sha256")
	v.SetDefault("BLOB_CODEC", codec.NameJSON)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("OTEL_SERVICE_NAME", "tokenstore")

	if err := v.ReadInConfig(); err != nil {
		// A missing file means defaults and env vars only.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects unknown backend, hash and codec names.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreMongoDB:
	case StoreBolt:
		if c.BoltPath == "" {
			return errors.New("config: BBOLT_PATH is required for the bbolt backend")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.CacheBackend {
	case "", CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if _, err := tokenstore.ParseHashAlgorithm(c.TokenHashAlgorithm); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, err := codec.ByName(c.BlobCodec); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}
