package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Telegram.Token)
	assert.Equal(t, 3, cfg.Checker.Concurrency)
	assert.Equal(t, 2, cfg.Checker.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Checker.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.Checker.Interval)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "de-DE", cfg.Browser.Locale)
	assert.Equal(t, "stockwatch", cfg.Database.DBName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("CHECKER_CONCURRENCY", "5")
	t.Setenv("CHECK_INTERVAL", "1m")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("TELEGRAM_OPERATOR_CHAT_ID", "1279780050")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Checker.Concurrency)
	assert.Equal(t, time.Minute, cfg.Checker.Interval)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, int64(1279780050), cfg.Telegram.OperatorChatID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.Telegram.Token = "" },
			wantErr: "TELEGRAM_BOT_TOKEN",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Checker.Concurrency = 0 },
			wantErr: "CHECKER_CONCURRENCY",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Checker.MaxRetries = -1 },
			wantErr: "CHECKER_MAX_RETRIES",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Checker.Interval = 0 },
			wantErr: "CHECK_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
