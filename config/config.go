package config

import (
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	HistorySQLite = "sqlite"
	HistoryMemory = "memory"
	HistoryNone   = "none"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all application configuration. Every field can be overridden
// from the environment through its env tag.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr" env:"LEASE_AGENT_ADDR"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"LEASE_AGENT_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"LEASE_AGENT_WRITE_TIMEOUT"`
		IdleTimeout     time.Duration `yaml:"idle_timeout" env:"LEASE_AGENT_IDLE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"LEASE_AGENT_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`
	RateLimit struct {
		Requests int           `yaml:"requests" env:"LEASE_AGENT_RATE_LIMIT_REQUESTS"`
		Per      time.Duration `yaml:"per" env:"LEASE_AGENT_RATE_LIMIT_PER"`
	} `yaml:"rate_limit"`
	Storage struct {
		Driver      string `yaml:"driver" env:"LEASE_AGENT_STORAGE_DRIVER"`
		PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`
		AutoMigrate bool   `yaml:"auto_migrate" env:"LEASE_AGENT_AUTO_MIGRATE"`
	} `yaml:"storage"`
	History struct {
		Driver     string        `yaml:"driver" env:"LEASE_AGENT_HISTORY_DRIVER"`
		SQLitePath string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
		Retention  time.Duration `yaml:"retention" env:"LEASE_AGENT_HISTORY_RETENTION"`
		PruneCron  string        `yaml:"prune_cron" env:"CRON_PRUNE"`
	} `yaml:"history"`
	Cache struct {
		Driver    string        `yaml:"driver" env:"LEASE_AGENT_CACHE_DRIVER"`
		RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR"`
		TTL       time.Duration `yaml:"ttl" env:"LEASE_AGENT_CACHE_TTL"`
	} `yaml:"cache"`
	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// Load reads config from a YAML file, then a .env file in the working
// directory, then applies environment variable overrides and defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read config")
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config")
			}
		}
	}

	// .env no pisa variables ya definidas
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, errors.Wrap(err, "decode environment")
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 5
	}
	if c.RateLimit.Per == 0 {
		c.RateLimit.Per = time.Minute
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if c.History.Driver == "" {
		c.History.Driver = HistorySQLite
	}
	if c.History.SQLitePath == "" {
		c.History.SQLitePath = "data/lease_quotes.db"
	}
	// 0 means unset; a negative retention keeps history forever
	if c.History.Retention == 0 {
		c.History.Retention = 90 * 24 * time.Hour
	}
	if c.History.PruneCron == "" {
		c.History.PruneCron = "0 0 3 * * *"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheMemory
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RateLimit.Requests <= 0 {
		return errors.New("rate_limit.requests must be positive")
	}
	if c.RateLimit.Per <= 0 {
		return errors.New("rate_limit.per must be positive")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return errors.Errorf("storage.driver %q is not one of memory, postgres", c.Storage.Driver)
	}

	switch c.History.Driver {
	case HistorySQLite, HistoryMemory, HistoryNone:
	default:
		return errors.Errorf("history.driver %q is not one of sqlite, memory, none", c.History.Driver)
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.History.PruneCron); err != nil {
		return errors.Wrap(err, "history.prune_cron")
	}

	switch c.Cache.Driver {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis driver")
		}
	default:
		return errors.Errorf("cache.driver %q is not one of memory, redis", c.Cache.Driver)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return errors.Errorf("logging.format %q is not one of json, console", c.Logging.Format)
	}
	return nil
}
