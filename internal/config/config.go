package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the radar.
type Config struct {
	Radar       RadarConfig       `yaml:"radar"`
	DEXScreener DEXScreenerConfig `yaml:"dexScreener"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// RadarConfig holds the detection and dispatch settings.
type RadarConfig struct {
	ChainID                   string  `yaml:"chainId"`
	PollIntervalSeconds       int     `yaml:"pollIntervalSeconds"`
	MinLiquidityUSD           float64 `yaml:"minLiquidityUsd"`
	MinDispatchIntervalMillis int64   `yaml:"minDispatchIntervalMillis"`
	MaxConcurrentFetches      int     `yaml:"maxConcurrentFetches"`
	ListingsCacheTTLMinutes   int     `yaml:"listingsCacheTtlMinutes"`
}

// DEXScreenerConfig holds the configuration for the DEX Screener client.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RequestsPerMinute    int    `yaml:"requestsPerMinute"`
	RequestBurst         int    `yaml:"requestBurst"`
}

// TelegramConfig holds the outbound channel credentials.
type TelegramConfig struct {
	BotToken             string `yaml:"botToken"`
	ChatID               string `yaml:"chatId"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ServerConfig holds the ops HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// LoadConfig loads configuration from a YAML file, applies defaults and
// environment overrides. A missing file is not an error: the bot can run
// configured entirely through the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		logrus.Infof("Loading configuration from path: %s", path)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, relying on defaults and environment", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// applyEnvOverrides maps well-known environment variables onto the config.
// Environment always wins over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("CHANNEL_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			logrus.Warnf("Ignoring invalid POLL_INTERVAL value %q", v)
		} else {
			c.Radar.PollIntervalSeconds = seconds
		}
	}
	if v := os.Getenv("MIN_LIQUIDITY_USD"); v != "" {
		floor, err := strconv.ParseFloat(v, 64)
		if err != nil || floor < 0 {
			logrus.Warnf("Ignoring invalid MIN_LIQUIDITY_USD value %q", v)
		} else {
			c.Radar.MinLiquidityUSD = floor
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Radar.ChainID == "" {
		c.Radar.ChainID = "solana"
	}
	if c.Radar.PollIntervalSeconds == 0 {
		c.Radar.PollIntervalSeconds = 60
		logrus.Infof("Radar.PollIntervalSeconds not set, defaulting to %d", c.Radar.PollIntervalSeconds)
	}
	if c.Radar.MinDispatchIntervalMillis == 0 {
		c.Radar.MinDispatchIntervalMillis = 1000
		logrus.Infof("Radar.MinDispatchIntervalMillis not set, defaulting to %d ms", c.Radar.MinDispatchIntervalMillis)
	}
	if c.Radar.MaxConcurrentFetches == 0 {
		c.Radar.MaxConcurrentFetches = 4
	}
	if c.Radar.ListingsCacheTTLMinutes == 0 {
		c.Radar.ListingsCacheTTLMinutes = 5
	}

	if c.DEXScreener.BaseURL == "" {
		c.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", c.DEXScreener.BaseURL)
	}
	if c.DEXScreener.RequestTimeoutMillis == 0 {
		c.DEXScreener.RequestTimeoutMillis = 15000
		logrus.Infof("DEXScreener.RequestTimeoutMillis not set, defaulting to %d ms", c.DEXScreener.RequestTimeoutMillis)
	}
	if c.DEXScreener.RequestsPerMinute == 0 {
		c.DEXScreener.RequestsPerMinute = 300 // documented free-tier budget
	}
	if c.DEXScreener.RequestBurst == 0 {
		c.DEXScreener.RequestBurst = 10
	}

	if c.Telegram.RequestTimeoutMillis == 0 {
		c.Telegram.RequestTimeoutMillis = 10000
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the settings the radar cannot run without. It is called
// once at startup; an error here is fatal, steady-state operation never
// re-validates.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (telegram.botToken or BOT_TOKEN)")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram chat id is required (telegram.chatId or CHANNEL_ID)")
	}
	if c.Radar.PollIntervalSeconds <= 0 {
		return fmt.Errorf("radar.pollIntervalSeconds must be positive, got %d", c.Radar.PollIntervalSeconds)
	}
	if c.Radar.MinLiquidityUSD < 0 {
		return fmt.Errorf("radar.minLiquidityUsd must not be negative, got %f", c.Radar.MinLiquidityUSD)
	}
	if c.Radar.MinDispatchIntervalMillis < 0 {
		return fmt.Errorf("radar.minDispatchIntervalMillis must not be negative, got %d", c.Radar.MinDispatchIntervalMillis)
	}
	if c.Radar.MaxConcurrentFetches <= 0 {
		return fmt.Errorf("radar.maxConcurrentFetches must be positive, got %d", c.Radar.MaxConcurrentFetches)
	}
	return nil
}
