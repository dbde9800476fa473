package confs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	def := GetDefaultConfig()
	assert.Equal(t, def.API.BaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "simulate", cfg.Pump.Mode)
	assert.Equal(t, time.Minute, cfg.Poll.Interval)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "api:\n  base_url: http://backend:9000\n  timeout: 5s\npump:\n  mode: mqtt\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, "mqtt", cfg.Pump.Mode)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "http://other:8000")
		t.Setenv("STORE_DSN", "host=db user=u")
		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://other:8000", cfg.API.BaseURL)
		assert.Equal(t, "host=db user=u", cfg.Store.DSN)
	})
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
