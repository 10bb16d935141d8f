package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

feeds:
  - url: https://example.com/feed1.xml
    name: Feed1
    fallback_image: https://example.com/logo.png
  - url: https://example.com/feed2.xml
    name: Feed2

cache:
  ttl: 10m

notify:
  cooldown: 2m
  emergency_override: true
  provider: none

store:
  type: sqlite
  path: file:test.db

schedule:
  enabled: false
  interval: 1m
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o600)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		require.Len(t, cfg.Feeds, 2)
		assert.Equal(t, "https://example.com/feed1.xml", cfg.Feeds[0].URL)
		assert.Equal(t, "Feed1", cfg.Feeds[0].Name)
		assert.Equal(t, "https://example.com/logo.png", cfg.Feeds[0].FallbackImage)
		assert.Equal(t, "Feed2", cfg.Feeds[1].Name)

		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 2*time.Minute, cfg.Notify.Cooldown)
		assert.True(t, cfg.Notify.EmergencyOverride)
		assert.Equal(t, "none", cfg.Notify.Provider)
		assert.Equal(t, "sqlite", cfg.Store.Type)
		assert.Equal(t, "file:test.db", cfg.Store.Path)
		assert.False(t, cfg.Schedule.Enabled)
		assert.Equal(t, time.Minute, cfg.Schedule.Interval)
	})

	t.Run("defaults", func(t *testing.T) {
		configContent := `
feeds:
  - url: https://example.com/feed.xml
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o600)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":3000", cfg.Server.Listen)
		assert.Equal(t, 60*time.Second, cfg.Server.Timeout)

		require.Len(t, cfg.Feeds, 1)
		assert.Equal(t, "https://example.com/feed.xml", cfg.Feeds[0].Name) // name defaults to URL

		assert.Equal(t, 10, cfg.Fetch.FullLimit)
		assert.Equal(t, 5, cfg.Fetch.LightLimit)
		assert.Equal(t, 6*time.Second, cfg.Image.Timeout)
		assert.Equal(t, "Mozilla/5.0", cfg.Image.UserAgent)
		assert.Equal(t, int64(1<<20), cfg.Image.MaxBody)
		assert.False(t, cfg.Image.DeepScan)
		assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 10*time.Minute, cfg.Notify.Cooldown)
		assert.Equal(t, 5, cfg.Notify.MinScore)
		assert.False(t, cfg.Notify.EmergencyOverride)
		assert.Equal(t, "ताजा महत्वपूर्ण समाचार", cfg.Notify.DefaultBody)
		assert.Equal(t, "onesignal", cfg.Notify.Provider)
		assert.Equal(t, "All", cfg.Notify.OneSignal.Segment)
		assert.Equal(t, "file", cfg.Store.Type)
		assert.Equal(t, "notified.json", cfg.Store.Path)
		assert.True(t, cfg.Schedule.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Schedule.Interval)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_ONESIGNAL_KEY", "secret-key")
		configContent := `
notify:
  onesignal:
    app_id: app-1
    rest_key: ${TEST_ONESIGNAL_KEY}
`
		configPath := filepath.Join(t.TempDir(), "env.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "secret-key", cfg.Notify.OneSignal.RESTKey)
		assert.Equal(t, []string{"secret-key"}, cfg.Secrets())
		assert.Len(t, cfg.Feeds, 15, "built-in feeds used when none configured")
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o600)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("unknown provider", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("notify:\n  provider: pigeon\n"), 0o600))

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), `unknown notify provider "pigeon"`)
	})

	t.Run("sns without topic", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "sns.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("notify:\n  provider: sns\n"), 0o600))

		_, err := Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "topic_arn is required")
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Feeds, 15)
	assert.Equal(t, "Baahrakhari", cfg.Feeds[0].Name)
	assert.Equal(t, "BBC Nepali", cfg.Feeds[14].Name)
	assert.True(t, cfg.Schedule.Enabled)
	assert.Empty(t, cfg.Secrets())
}

func TestConfig_Sources(t *testing.T) {
	cfg := &Config{
		Feeds: []Feed{
			{URL: "https://feed1.com", Name: "Feed1", FallbackImage: "https://feed1.com/logo.png"},
			{URL: "https://feed2.com", Name: "Feed2"},
		},
	}

	sources := cfg.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "Feed1", sources[0].Name)
	assert.Equal(t, "https://feed1.com", sources[0].URL)
	assert.Equal(t, "https://feed1.com/logo.png", sources[0].FallbackImage)
	assert.Empty(t, sources[1].FallbackImage)
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Listen = ":9090"
	cfg.Server.Timeout = 45 * time.Second

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
}
