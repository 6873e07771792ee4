package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRADING_SYMBOLS", "")
	t.Setenv("BACKTEST_DAYS", "")
	t.Setenv("BACKTEST_MAX_TRADES", "")
	t.Setenv("BACKTEST_COST_PCT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Symbols)
	assert.Equal(t, 730, cfg.Backtest.Days)
	assert.Equal(t, 1000, cfg.Backtest.MaxTrades)
	assert.InDelta(t, 0.05, cfg.Backtest.CostPct, 1e-12)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRADING_SYMBOLS", " btcusdt , solusdt,,")
	t.Setenv("BACKTEST_DAYS", "365")
	t.Setenv("BACKTEST_MAX_TRADES", "50")
	t.Setenv("BACKTEST_COST_PCT", "0.1")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "SOLUSDT"}, cfg.Symbols)
	assert.Equal(t, 365, cfg.Backtest.Days)
	assert.Equal(t, 50, cfg.Backtest.MaxTrades)
	assert.InDelta(t, 0.1, cfg.Backtest.CostPct, 1e-12)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvtoInt(t *testing.T) {
	assert.Equal(t, 42, EnvtoInt("42"))
	assert.Equal(t, 0, EnvtoInt("nope"))
}
