package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/regvalidate/internal/blob"
	"github.com/JonMunkholm/regvalidate/internal/config"
	"github.com/JonMunkholm/regvalidate/internal/core"
	"github.com/JonMunkholm/regvalidate/internal/directory"
	"github.com/JonMunkholm/regvalidate/internal/featureflag"
	"github.com/JonMunkholm/regvalidate/internal/logging"
	"github.com/JonMunkholm/regvalidate/internal/obs"
	"github.com/JonMunkholm/regvalidate/internal/queue"
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/submission"
	"github.com/JonMunkholm/regvalidate/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	metrics := obs.NewMetrics(prometheus.DefaultRegisterer)

	// Feature flags: env values, overridden by the flag table when configured
	var flags featureflag.Provider = featureflag.Static{
		featureflag.RowValidation:              cfg.Validation.RowRulesEnabled,
		featureflag.OrganisationDataValidation: cfg.Validation.CrossReferenceEnabled,
		featureflag.LeaverCodeValidation:       cfg.LeaverRuleSet() == rules.LeaverRulesLeaverCode,
	}
	if cfg.FeatureFlags.DatabaseURL != "" {
		pool, err := openFlagStore(ctx, cfg.FeatureFlags)
		if err != nil {
			slog.Error("failed to connect to flag store", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		flags = featureflag.NewPostgres(pool, flags)
		slog.Info("feature flags read from database")
	}

	var dir directory.Directory
	if cfg.Directory.BaseURL != "" {
		dir = directory.NewClient(cfg.Directory.BaseURL,
			directory.WithTimeout(cfg.Directory.Timeout),
			directory.WithRetryPolicy(directory.RetryPolicy{
				MaxAttempts: cfg.Directory.RetryAttempts,
				BaseDelay:   cfg.Directory.RetryBaseDelay,
				MaxDelay:    cfg.Directory.RetryMaxDelay,
				Multiplier:  cfg.Directory.RetryMultiplier,
			}),
		)
	}

	blobs, err := blob.NewS3Store(ctx, blob.Options{
		Region:    cfg.Blob.Region,
		Endpoint:  cfg.Blob.Endpoint,
		PathStyle: cfg.Blob.PathStyle,
	})
	if err != nil {
		slog.Error("failed to create blob client", "error", err)
		os.Exit(1)
	}

	publisher, err := submission.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
	if err != nil {
		slog.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	service := core.NewService(core.Deps{
		Blobs:             blobs,
		Publisher:         publisher,
		OrganisationFiles: submission.NewClient(cfg.Submission.APIBaseURL, cfg.Submission.Timeout),
		Directory:         dir,
		Flags:             flags,
		Metrics:           metrics,
	}, core.Settings{
		Container:     cfg.Blob.Container,
		ErrorLimit:    cfg.Validation.ErrorLimit,
		MaxConcurrent: cfg.Validation.MaxConcurrent,
		MaxWait:       cfg.Validation.MaxWaitTime,
	})

	consumer, err := queue.NewConsumer(queue.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	}, service.Process, metrics)
	if err != nil {
		slog.Error("failed to create consumer", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg.Server, cfg.Security, web.Options{
		Limiter:  service.Limiter(),
		Gatherer: prometheus.DefaultGatherer,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ops server stopped", "error", err)
			stop()
		}
	}()

	slog.Info("consuming", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.GroupID)
	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consumer stopped", "error", err)
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Wait for runs started by the validate endpoint
	if st := service.Limiter().Status(); st.Active > 0 {
		slog.Info("waiting for runs to complete", "active", st.Active)
		if err := service.Limiter().WaitForDrain(shutdownCtx); err != nil {
			slog.Warn("runs did not complete in time", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := consumer.Close(); err != nil {
		slog.Error("consumer close error", "error", err)
	}
}

// openFlagStore connects to the feature flag database.
func openFlagStore(ctx context.Context, cfg config.FeatureFlagConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
