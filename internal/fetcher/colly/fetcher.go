// Package collyfetcher implements the retrying fetch primitive using the
// gocolly collector.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/dfurtado/sitesearch/internal/metrics"
)

// Config controls collector and retry behavior.
type Config struct {
	UserAgent      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Fetcher performs HTTP GETs with bounded retries and exponential backoff.
// Exhausted retries surface as an error; callers treat that as a normal
// per-URL outcome rather than a fatal condition.
type Fetcher struct {
	cfg           Config
	retry         *retryPolicy
	transport     http.RoundTripper
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 5 * time.Second
	}

	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true

	transport := newHTTPTransport(cfg.ConnectTimeout)
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		retry:         newRetryPolicy(cfg.MaxRetries, cfg.BackoffInitial, cfg.BackoffMax),
		transport:     transport,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch retrieves the content at rawURL, retrying on failure with backoff.
// Cancellation during a backoff sleep aborts immediately with no content.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.ObserveFetchRetry()
			if !sleepInterruptible(ctx, f.retry.backoff(attempt)) {
				return "", fmt.Errorf("fetch %s canceled during backoff: %w", rawURL, ctx.Err())
			}
		}

		content, err := f.visit(ctx, rawURL)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !f.retry.shouldRetry(err, attempt+1) {
			break
		}
		f.logger.Debug("fetch attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return "", fmt.Errorf("fetch %s: %w", rawURL, lastErr)
}

// visit executes a single GET through a cloned collector.
func (f *Fetcher) visit(ctx context.Context, rawURL string) (string, error) {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.ReadTimeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("visit failed: %w", err)
		}
		if fetchErr != nil {
			return "", fmt.Errorf("response failed: %w", fetchErr)
		}
		return string(body), nil
	}
}

func sleepInterruptible(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func newHTTPTransport(connectTimeout time.Duration) *http.Transport {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
