// Package main wires together the sitesearch service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dfurtado/sitesearch/internal/api"
	"github.com/dfurtado/sitesearch/internal/clock/system"
	"github.com/dfurtado/sitesearch/internal/config"
	"github.com/dfurtado/sitesearch/internal/dispatcher"
	collyfetcher "github.com/dfurtado/sitesearch/internal/fetcher/colly"
	"github.com/dfurtado/sitesearch/internal/id/short"
	"github.com/dfurtado/sitesearch/internal/logging"
	queueMemory "github.com/dfurtado/sitesearch/internal/queue/memory"
	"github.com/dfurtado/sitesearch/internal/registry"
	"github.com/dfurtado/sitesearch/internal/search"
	"github.com/dfurtado/sitesearch/internal/worker"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue := queueMemory.NewQueue(cfg.Pool.QueueDepth)
	clock := system.New()
	idGen := short.New()

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:      cfg.Crawler.UserAgent,
		ConnectTimeout: cfg.ConnectTimeout(),
		ReadTimeout:    cfg.ReadTimeout(),
		MaxRetries:     cfg.HTTP.MaxRetries,
		BackoffInitial: cfg.BackoffInitial(),
		BackoffMax:     cfg.BackoffMax(),
	}, logger.Named("fetcher"))

	links, err := search.NewLinkExtractor(cfg.Crawler.BaseURL, logger.Named("links"))
	if err != nil {
		logger.Fatal("link extractor init failed", zap.Error(err))
	}
	engine := search.NewEngine(fetcher, links, search.EngineConfig{
		BaseURL:       cfg.Crawler.BaseURL,
		PollInterval:  cfg.PollInterval(),
		MaxEmptyPolls: cfg.Crawler.MaxEmptyPolls,
		VisitedLimit:  cfg.Crawler.VisitedLimit,
		LimitResults:  cfg.Crawler.LimitResults,
		MaxResults:    cfg.Crawler.MaxResults,
	}, logger.Named("engine"))

	var workers []*worker.Worker
	for i := 0; i < cfg.Pool.Workers; i++ {
		workers = append(workers, worker.New(
			queue,
			engine,
			logger.Named("worker").With(zap.Int("index", i)),
		))
	}
	dispatch := dispatcher.New(queue, workers)

	reg := registry.New(dispatch, idGen, clock, logger.Named("registry"))
	apiServer := api.NewServer(reg, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("dispatcher started",
			zap.Int("workers", cfg.Pool.Workers),
			zap.Int("queue_depth", cfg.Pool.QueueDepth),
		)
		dispatch.Run(ctx)
	}()

	go func() {
		logger.Info("http server started",
			zap.Int("port", cfg.Server.Port),
			zap.String("base_url", cfg.Crawler.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	// Polling clients must observe completion even for searches that were
	// queued but never picked up.
	reg.MarkAllDone()
	queue.Close()
	if !dispatch.Wait(cfg.ShutdownGrace()) {
		logger.Warn("grace period elapsed, abandoning remaining workers")
	}
	logger.Info("shutdown complete")
}
