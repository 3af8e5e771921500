package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/field-visit-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/field-visit-etl/internal/adapter/kafka"
	"github.com/couchcryptid/field-visit-etl/internal/adapter/ratings"
	"github.com/couchcryptid/field-visit-etl/internal/config"
	"github.com/couchcryptid/field-visit-etl/internal/domain"
	"github.com/couchcryptid/field-visit-etl/internal/observability"
	"github.com/couchcryptid/field-visit-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Rating model lookup is feature-flagged via RATINGS_ENABLED / RATINGS_URL.
	var resolver domain.RatingModelResolver
	if cfg.RatingsEnabled {
		client := ratings.NewClient(cfg.RatingsURL, cfg.RatingsToken, cfg.RatingsTimeout, metrics, logger)
		cached, err := ratings.NewCachedResolver(client, cfg.RatingsCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create rating model cache", "error", err)
			os.Exit(1)
		}
		resolver = cached
		metrics.RatingLookupEnabled.Set(1)
		logger.Info("rating model lookup enabled", "cache_size", cfg.RatingsCacheSize, "timeout", cfg.RatingsTimeout)
	} else {
		logger.Info("rating model lookup disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(resolver, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	// Let the in-flight batch finish committing before the reader goes away.
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
