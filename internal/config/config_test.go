package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, `
crawler:
  base_url: http://site.test/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 4567, cfg.Server.Port)
	require.Equal(t, "http://site.test/", cfg.Crawler.BaseURL)
	require.Equal(t, 50, cfg.Crawler.MaxEmptyPolls)
	require.Equal(t, 100, cfg.Crawler.PollIntervalMs)
	require.Equal(t, 500, cfg.Crawler.VisitedLimit)
	require.True(t, cfg.Crawler.LimitResults)
	require.Equal(t, 100, cfg.Crawler.MaxResults)
	require.Equal(t, 5000, cfg.HTTP.ConnectTimeoutMs)
	require.Equal(t, 5000, cfg.HTTP.ReadTimeoutMs)
	require.Equal(t, 3, cfg.HTTP.MaxRetries)
	require.Equal(t, 20, cfg.Pool.Workers)
	require.Equal(t, 0, cfg.Pool.QueueDepth)
	require.Equal(t, 5, cfg.Pool.ShutdownGraceSeconds)
	require.True(t, cfg.Logging.Development)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
crawler:
  base_url: http://example.test/docs
  visited_limit: 50
  limit_results: false
pool:
  workers: 4
  queue_depth: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, 50, cfg.Crawler.VisitedLimit)
	require.False(t, cfg.Crawler.LimitResults)
	require.Equal(t, 4, cfg.Pool.Workers)
	require.Equal(t, 8, cfg.Pool.QueueDepth)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("SITESEARCH_SERVER_PORT", "8123")
	path := writeConfigFile(t, `
crawler:
  base_url: http://site.test/
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8123, cfg.Server.Port)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 4567
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "base_url")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Server:  ServerConfig{Port: 4567},
		Crawler: CrawlerConfig{BaseURL: "http://site.test/", MaxEmptyPolls: 50, VisitedLimit: 500, LimitResults: true, MaxResults: 100},
		HTTP:    HTTPConfig{MaxRetries: 3},
		Pool:    PoolConfig{Workers: 20},
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"base url without host", func(c *Config) { c.Crawler.BaseURL = "/relative" }},
		{"zero empty polls", func(c *Config) { c.Crawler.MaxEmptyPolls = 0 }},
		{"zero visited limit", func(c *Config) { c.Crawler.VisitedLimit = 0 }},
		{"capped results without cap", func(c *Config) { c.Crawler.MaxResults = 0 }},
		{"zero retries", func(c *Config) { c.HTTP.MaxRetries = 0 }},
		{"zero workers", func(c *Config) { c.Pool.Workers = 0 }},
		{"negative queue depth", func(c *Config) { c.Pool.QueueDepth = -1 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Crawler: CrawlerConfig{PollIntervalMs: 100},
		HTTP:    HTTPConfig{ConnectTimeoutMs: 5000, ReadTimeoutMs: 2500, BackoffInitialMs: 1000, BackoffMaxMs: 5000},
		Pool:    PoolConfig{ShutdownGraceSeconds: 5},
	}
	require.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	require.Equal(t, 5*time.Second, cfg.ConnectTimeout())
	require.Equal(t, 2500*time.Millisecond, cfg.ReadTimeout())
	require.Equal(t, time.Second, cfg.BackoffInitial())
	require.Equal(t, 5*time.Second, cfg.BackoffMax())
	require.Equal(t, 5*time.Second, cfg.ShutdownGrace())
}
