package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"

	CacheRedis = "redis"
	CacheLocal = "local"
	CacheNone  = "none"
)

// Config holds the configuration for the recipe service.
// Environment variables are parsed from the RECIPE_SERVICE_ prefix.
type Config struct {
	// Build target picks driver defaults: local (memory + in-process cache) or cloud (mongo + redis)
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	CacheDriver string `envconfig:"CACHE_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Mongo
	MongoURI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"grocery"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"recipes"`

	StoreConnectRetries int `envconfig:"STORE_CONNECT_RETRIES" default:"5"`

	// Redis
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	LocalCacheCapacity int `envconfig:"LOCAL_CACHE_CAPACITY" default:"10000"`

	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	CacheTimeout time.Duration `envconfig:"CACHE_TIMEOUT" default:"500ms"`

	// Auth: none, or token with AUTH_TOKENS=token1:subject1,token2:subject2
	AuthMode   string            `envconfig:"AUTH_MODE" default:"none"`
	AuthTokens map[string]string `envconfig:"AUTH_TOKENS"`

	HealthIntervalSeconds     int           `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int           `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	ShutdownTimeout           time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// ResolveDefaults validates BuildTarget and derives the drivers left on "auto".
func (c *Config) ResolveDefaults() error {
	var defaultDB, defaultCache string
	switch c.BuildTarget {
	case "local":
		defaultDB, defaultCache = DriverMemory, CacheLocal
	case "cloud":
		defaultDB, defaultCache = DriverMongo, CacheRedis
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}
	if c.CacheDriver == "" || c.CacheDriver == "auto" {
		c.CacheDriver = defaultCache
	}

	switch c.DBDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	switch c.CacheDriver {
	case CacheRedis, CacheLocal, CacheNone:
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER: %s", c.CacheDriver)
	}
	switch c.AuthMode {
	case "none", "":
	case "token":
		if len(c.AuthTokens) == 0 {
			return fmt.Errorf("AUTH_MODE=token requires AUTH_TOKENS")
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE: %s", c.AuthMode)
	}
	if c.CacheTTL <= 0 || c.StoreTimeout <= 0 || c.CacheTimeout <= 0 {
		return fmt.Errorf("CACHE_TTL, STORE_TIMEOUT and CACHE_TIMEOUT must be positive")
	}
	if c.StoreConnectRetries < 0 {
		return fmt.Errorf("STORE_CONNECT_RETRIES must not be negative")
	}
	if c.HealthIntervalSeconds <= 0 || c.HealthProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("health interval and probe timeout must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Example: RECIPE_SERVICE_HTTP_PORT, RECIPE_SERVICE_MONGO_URI
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RECIPE_SERVICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("cache_driver", cfg.CacheDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("mongo_database", cfg.MongoDatabase).
		Str("mongo_collection", cfg.MongoCollection).
		Str("redis_addr", cfg.RedisAddr).
		Dur("cache_ttl", cfg.CacheTTL).
		Str("auth_mode", cfg.AuthMode).
		Int("auth_tokens", len(cfg.AuthTokens)).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a resolved in-memory configuration.
func NewForTesting() *Config {
	cfg := &Config{
		BuildTarget:               "local",
		DBDriver:                  DriverMemory,
		CacheDriver:               CacheLocal,
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  8080,
		MongoURI:                  "mongodb://localhost:27017",
		MongoDatabase:             "grocery_test",
		MongoCollection:           "recipes",
		StoreConnectRetries:       0,
		RedisAddr:                 "localhost:6379",
		LocalCacheCapacity:        1000,
		CacheTTL:                  time.Hour,
		StoreTimeout:              5 * time.Second,
		CacheTimeout:              500 * time.Millisecond,
		AuthMode:                  "none",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		ShutdownTimeout:           5 * time.Second,
	}
	return cfg
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}
