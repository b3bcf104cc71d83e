package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/sounding-analysis-service/internal/adapter/kafka"
	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/modeldata"
	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/sharppy"
	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/visualcrossing"
	"github.com/couchcryptid/sounding-analysis-service/internal/config"
	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
	"github.com/couchcryptid/sounding-analysis-service/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; environment wins in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	fetcher := modeldata.NewClient(cfg.ModelDataURL, cfg.ModelDataTimeout, logger)
	analyzer := sharppy.NewClient(cfg.AnalysisURL, cfg.AnalysisTimeout, metrics, logger)

	// Weather observations are feature-flagged via VISUAL_CROSSING_API_KEY.
	var (
		conditions domain.ConditionsProvider
		alerts     domain.AlertsProvider
	)
	if cfg.VisualCrossingEnabled {
		client := visualcrossing.NewClient(cfg.VisualCrossingKey, cfg.VisualCrossingTimeout, metrics, logger)
		conditions = visualcrossing.NewCachedProvider(client, cfg.VisualCrossingCacheSize, metrics)
		alerts = client
		logger.Info("visual crossing enabled",
			"cache_size", cfg.VisualCrossingCacheSize, "timeout", cfg.VisualCrossingTimeout)
	} else {
		logger.Info("visual crossing disabled, reports carry no surface observations")
	}

	// Report publishing is feature-flagged via KAFKA_BROKERS.
	var (
		publisher pipeline.ReportPublisher
		kafkaPub  *kafkaadapter.Publisher
	)
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	svc := pipeline.New(fetcher, analyzer, analyzer, conditions, publisher, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, svc, alerts, cfg.DefaultModel, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
