// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper. It is
// constructed once at process start and passed by value into constructors;
// there is no ambient global lookup.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Pool    PoolConfig    `mapstructure:"pool"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs the traversal loop.
type CrawlerConfig struct {
	// BaseURL is the crawl root and domain anchor. Required.
	BaseURL string `mapstructure:"base_url"`
	// MaxEmptyPolls bounds consecutive empty frontier polls before a
	// traversal gives up.
	MaxEmptyPolls  int    `mapstructure:"max_empty_polls"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	VisitedLimit   int    `mapstructure:"visited_limit"`
	LimitResults   bool   `mapstructure:"limit_results"`
	MaxResults     int    `mapstructure:"max_results"`
	UserAgent      string `mapstructure:"user_agent"`
}

// HTTPConfig configures fetch timeouts and retry behavior.
type HTTPConfig struct {
	ConnectTimeoutMs int `mapstructure:"connect_timeout_ms"`
	ReadTimeoutMs    int `mapstructure:"read_timeout_ms"`
	MaxRetries       int `mapstructure:"max_retries"`
	BackoffInitialMs int `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int `mapstructure:"backoff_max_ms"`
}

// PoolConfig bounds the worker pool. A queue depth of 0 means submission
// only succeeds while a worker is free.
type PoolConfig struct {
	Workers              int `mapstructure:"workers"`
	QueueDepth           int `mapstructure:"queue_depth"`
	ShutdownGraceSeconds int `mapstructure:"shutdown_grace_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 4567)
	v.SetDefault("crawler.max_empty_polls", 50)
	v.SetDefault("crawler.poll_interval_ms", 100)
	v.SetDefault("crawler.visited_limit", 500)
	v.SetDefault("crawler.limit_results", true)
	v.SetDefault("crawler.max_results", 100)
	v.SetDefault("crawler.user_agent", "sitesearch-bot/1.0 (+https://github.com/dfurtado/sitesearch)")
	v.SetDefault("http.connect_timeout_ms", 5000)
	v.SetDefault("http.read_timeout_ms", 5000)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_initial_ms", 1000)
	v.SetDefault("http.backoff_max_ms", 5000)
	v.SetDefault("pool.workers", 20)
	v.SetDefault("pool.queue_depth", 0)
	v.SetDefault("pool.shutdown_grace_seconds", 5)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("crawler.base_url is required")
	}
	u, err := url.Parse(c.Crawler.BaseURL)
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("crawler.base_url must be a valid URL with a host")
	}
	if c.Crawler.MaxEmptyPolls <= 0 {
		return fmt.Errorf("crawler.max_empty_polls must be > 0")
	}
	if c.Crawler.VisitedLimit <= 0 {
		return fmt.Errorf("crawler.visited_limit must be > 0")
	}
	if c.Crawler.LimitResults && c.Crawler.MaxResults <= 0 {
		return fmt.Errorf("crawler.max_results must be > 0 when limit_results is enabled")
	}
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be > 0")
	}
	if c.Pool.Workers <= 0 {
		return fmt.Errorf("pool.workers must be > 0")
	}
	if c.Pool.QueueDepth < 0 {
		return fmt.Errorf("pool.queue_depth must be >= 0")
	}
	return nil
}

// PollInterval returns the frontier poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Crawler.PollIntervalMs) * time.Millisecond
}

// ConnectTimeout returns the fetch connect timeout as a duration.
func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutMs) * time.Millisecond
}

// ReadTimeout returns the fetch read timeout as a duration.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadTimeoutMs) * time.Millisecond
}

// BackoffInitial returns the first retry backoff delay.
func (c Config) BackoffInitial() time.Duration {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond
}

// BackoffMax returns the retry backoff ceiling.
func (c Config) BackoffMax() time.Duration {
	return time.Duration(c.HTTP.BackoffMaxMs) * time.Millisecond
}

// ShutdownGrace returns how long shutdown waits for workers to exit.
func (c Config) ShutdownGrace() time.Duration {
	return time.Duration(c.Pool.ShutdownGraceSeconds) * time.Second
}
