package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Site.BaseURL)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.Equal(t, "rod", cfg.Browser.Driver)
	assert.Equal(t, 30*time.Second, cfg.ListingTimeout())
	assert.Equal(t, 20*time.Second, cfg.DetailTimeout())
	assert.Equal(t, DefaultMaxDetailPages, cfg.Browser.MaxDetailPages)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseConfigNormalizesPaths(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"site": {"base_url": "https://example.com"},
		"rod": {"user_data_dir": "data/rod"},
		"browser": {"max_detail_pages": -1}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", cfg.Site.BaseURL)
	assert.True(t, filepath.IsAbs(cfg.Rod.UserDataDir))
	assert.Equal(t, -1, cfg.Browser.MaxDetailPages)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown driver":   `{"browser": {"driver": "firefox"}}`,
		"unknown cache":    `{"cache": {"type": "disk"}}`,
		"redis no address": `{"cache": {"type": "redis"}}`,
		"memcache no addr": `{"cache": {"type": "memcache"}}`,
		"es no address":    `{"elasticsearch": {"enabled": true}}`,
		"embedder no es":   `{"embedder": {"enabled": true}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
browser:
  driver: chromedp
  detail_timeout: 5
cache:
  type: redis
  ttl: 60
  redis:
    address: localhost:6379
log:
  level: debug
  pretty: true
`), 0o644)
	require.NoError(t, err)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "chromedp", cfg.Browser.Driver)
	assert.Equal(t, 5*time.Second, cfg.DetailTimeout())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Address)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
