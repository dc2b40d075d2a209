package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "solana", cfg.Radar.ChainID)
	assert.Equal(t, 60, cfg.Radar.PollIntervalSeconds)
	assert.Equal(t, 0.0, cfg.Radar.MinLiquidityUSD)
	assert.Equal(t, int64(1000), cfg.Radar.MinDispatchIntervalMillis)
	assert.Equal(t, "https://api.dexscreener.com", cfg.DEXScreener.BaseURL)
	assert.Equal(t, int64(15000), cfg.DEXScreener.RequestTimeoutMillis)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
radar:
  chainId: solana
  pollIntervalSeconds: 30
  minLiquidityUsd: 2500
telegram:
  botToken: file-token
  chatId: "@SolLiquidityRadar"
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Radar.PollIntervalSeconds)
	assert.Equal(t, 2500.0, cfg.Radar.MinLiquidityUSD)
	assert.Equal(t, "file-token", cfg.Telegram.BotToken)
	assert.Equal(t, "@SolLiquidityRadar", cfg.Telegram.ChatID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
radar:
  pollIntervalSeconds: 30
telegram:
  botToken: file-token
  chatId: file-chat
`)

	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("CHANNEL_ID", "-1001234567890")
	t.Setenv("POLL_INTERVAL", "15")
	t.Setenv("MIN_LIQUIDITY_USD", "500")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "-1001234567890", cfg.Telegram.ChatID)
	assert.Equal(t, 15, cfg.Radar.PollIntervalSeconds)
	assert.Equal(t, 500.0, cfg.Radar.MinLiquidityUSD)
}

func TestLoadConfig_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "not-a-number")
	t.Setenv("MIN_LIQUIDITY_USD", "-10")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Radar.PollIntervalSeconds)
	assert.Equal(t, 0.0, cfg.Radar.MinLiquidityUSD)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "radar: [not: valid")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Telegram.BotToken = "token"
		cfg.Telegram.ChatID = "chat"
		cfg.applyDefaults()
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing bot token", func(t *testing.T) {
		cfg := base()
		cfg.Telegram.BotToken = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing chat id", func(t *testing.T) {
		cfg := base()
		cfg.Telegram.ChatID = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative liquidity floor", func(t *testing.T) {
		cfg := base()
		cfg.Radar.MinLiquidityUSD = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive poll interval", func(t *testing.T) {
		cfg := base()
		cfg.Radar.PollIntervalSeconds = -5
		assert.Error(t, cfg.Validate())
	})
}
