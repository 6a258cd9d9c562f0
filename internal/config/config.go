// Package config holds runtime settings. Values come from defaults, an optional
// YAML file (SAFECITY_CONFIG) and finally environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"safecity/backend/internal/logger"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "SAFECITY_CONFIG"
	portEnv          = "PORT"
	databaseDSNEnv   = "DATABASE_DSN"
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_DISPATCH_CHAT_ID"
	latencyEnv       = "PROVIDER_LATENCY"
	ginModeEnv       = "GIN_MODE"
	localesEnv       = "LOCALES_DIR"
)

type Config struct {
	Port     string         `yaml:"port"`
	GinMode  string         `yaml:"ginMode"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	Provider ProviderConfig `yaml:"provider"`
	// LocalesDir overrides the embedded translations.
	LocalesDir string `yaml:"localesDir"`
}

// DatabaseConfig: an empty DSN selects the in-memory provider.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TelegramConfig wires the dispatch notifier. Empty token disables it.
type TelegramConfig struct {
	BotToken       string `yaml:"botToken"`
	DispatchChatID int64  `yaml:"dispatchChatId"`
}

// ProviderConfig controls the artificial latency of the in-memory provider.
type ProviderConfig struct {
	// Latency defaults to on when unset.
	Latency *bool `yaml:"latency"`
}

func (p ProviderConfig) LatencyEnabled() bool {
	return p.Latency == nil || *p.Latency
}

func (c Config) UsesDatabase() bool { return c.Database.DSN != "" }

func (c Config) UsesRedis() bool { return c.Redis.Addr != "" }

// Load never fails: unreadable files fall back to defaults with a log line.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			logger.Warning("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				logger.Warning("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Port = v
	}
	if v := os.Getenv(ginModeEnv); v != "" {
		c.GinMode = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(redisPasswordEnv); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatEnv); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Warning("config: invalid %s=%q, dispatch notifications disabled", telegramChatEnv, v)
		} else {
			c.Telegram.DispatchChatID = id
		}
	}
	if v := os.Getenv(latencyEnv); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warning("config: invalid %s=%q, keeping %t", latencyEnv, v, c.Provider.LatencyEnabled())
		} else {
			c.Provider.Latency = &on
		}
	}
	if v := os.Getenv(localesEnv); v != "" {
		c.LocalesDir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Port != "" {
		base.Port = override.Port
	}
	if override.GinMode != "" {
		base.GinMode = override.GinMode
	}
	if override.Database.DSN != "" {
		base.Database = override.Database
	}
	if override.Redis.Addr != "" {
		base.Redis = override.Redis
	}
	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.DispatchChatID != 0 {
		base.Telegram.DispatchChatID = override.Telegram.DispatchChatID
	}
	if override.Provider.Latency != nil {
		base.Provider.Latency = override.Provider.Latency
	}
	if override.LocalesDir != "" {
		base.LocalesDir = override.LocalesDir
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Port:    "8080",
		GinMode: "release",
	}
}

// Delays returns the per-operation latency the memory provider should apply.
func (c Config) Delays() Delays {
	if !c.Provider.LatencyEnabled() {
		return Delays{}
	}
	return DefaultDelays()
}

// Delays is the artificial latency per provider operation.
type Delays struct {
	ListReports  time.Duration
	GetReport    time.Duration
	CreateReport time.Duration
	ListNotices  time.Duration
	ListBlogs    time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		ListReports:  ListReportsDelay,
		GetReport:    GetReportDelay,
		CreateReport: CreateReportDelay,
		ListNotices:  ListNoticesDelay,
		ListBlogs:    ListBlogsDelay,
	}
}
