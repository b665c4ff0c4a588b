package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/internal", cfg.Storage.Internal.Path)
	assert.Equal(t, "data/market", cfg.Storage.Market.Path)
	assert.Equal(t, "https://eodhd.com/api", cfg.Clients.EODHD.BaseURL)
	assert.Equal(t, "balanced", cfg.Prompt.DefaultPersona)
	assert.Equal(t, 50, cfg.Prompt.HistoryLimit)
	assert.Equal(t, "VIX.INDX", cfg.Macro.VolatilityIndex)
	assert.Equal(t, "SPY.US", cfg.Macro.Benchmark)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ollie.toml")
	content := `
environment = "production"

[server]
port = 4242

[prompt]
default_persona = "buffett"
news_limit = 3

[clients.eodhd]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 4242, cfg.Server.Port)
	assert.Equal(t, "buffett", cfg.Prompt.DefaultPersona)
	assert.Equal(t, 3, cfg.Prompt.NewsLimit)
	assert.Equal(t, "file-key", cfg.Clients.EODHD.APIKey)
	// Unset fields keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 50, cfg.Prompt.HistoryLimit)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OLLIE_ENV", "production")
	t.Setenv("OLLIE_PORT", "9090")
	t.Setenv("OLLIE_LOG_LEVEL", "debug")
	t.Setenv("OLLIE_DEFAULT_PERSONA", "BURRY")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "burry", cfg.Prompt.DefaultPersona)
}

func TestLoadConfig_DataPathEnvOverride(t *testing.T) {
	t.Setenv("OLLIE_DATA_PATH", "/var/lib/ollie")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/var/lib/ollie", "internal"), cfg.Storage.Internal.Path)
	assert.Equal(t, filepath.Join("/var/lib/ollie", "market"), cfg.Storage.Market.Path)
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"Prod", true},
		{" PRODUCTION ", true},
		{"development", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := &Config{Environment: tt.env}
		assert.Equal(t, tt.want, cfg.IsProduction(), "environment %q", tt.env)
	}
}

func TestEODHDConfig_GetTimeout(t *testing.T) {
	cfg := &EODHDConfig{Timeout: "5s"}
	assert.Equal(t, "5s", cfg.GetTimeout().String())

	cfg = &EODHDConfig{Timeout: "garbage"}
	assert.Equal(t, "30s", cfg.GetTimeout().String())
}

func TestResolveAPIKey_EnvWins(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "env-key")

	key, err := ResolveAPIKey(context.Background(), nil, "eodhd_api_key", "fallback-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
}

func TestResolveAPIKey_FallbackWhenUnset(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "")
	t.Setenv("OLLIE_EODHD_API_KEY", "")

	key, err := ResolveAPIKey(context.Background(), nil, "eodhd_api_key", "fallback-key")
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", key)
}

func TestResolveAPIKey_ErrorWhenNowhere(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OLLIE_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := ResolveAPIKey(context.Background(), nil, "gemini_api_key", "")
	assert.Error(t, err)
}
