package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/geomed/internal/api/handlers"
	"github.com/cloo-solutions/geomed/internal/config"
	"github.com/cloo-solutions/geomed/internal/metrics"
	"github.com/cloo-solutions/geomed/internal/openai"
	"github.com/cloo-solutions/geomed/internal/oracle"
	"github.com/cloo-solutions/geomed/internal/pubmed"
	"github.com/cloo-solutions/geomed/internal/server"
	"github.com/cloo-solutions/geomed/internal/service"
	"github.com/cloo-solutions/geomed/internal/storage"
	"github.com/cloo-solutions/geomed/internal/telemetry"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// Version is reported as the Sentry release; set by the geomedd binary.
var Version = "dev"

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the GeoMed prediction API on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides GEOMED_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", defaultMigrationsSource, "Migration source URL")

	return cmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	return telemetry.NewLogger(telemetry.LogConfig{
		Debug: cfg.Debug,
		JSON:  cfg.LogFormat == "json",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if !cfg.HasOpenAI() {
		return errors.New("GEOMED_OPENAI_API_KEY is required to serve predictions")
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}
	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "geomed@" + Version,
		TracesSampleRate: sampleRate,
	})
	if err != nil {
		logger.Warn("continuing without tracing", "error", err)
	}
	defer shutdownTelemetry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	source, _ := cmd.Flags().GetString("migrations")
	repo, closeStore, err := openStore(ctx, cfg, storeOptions{Migrate: !noMigrate, MigrationsSource: source}, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var archiver service.UploadArchiver
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		logger.Info("upload archive ready", "bucket", cfg.S3Bucket)
		archiver = s3Client
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	llm := openai.NewClientWithConfig(openai.Config{
		APIKey:    cfg.OpenAIAPIKey,
		ChatModel: cfg.OpenAIModel,
		BaseURL:   cfg.OpenAIBaseURL,
	})
	predictor := oracle.New(llm, pubmed.NewClient(cfg.PubMedBaseURL, cfg.PubMedTimeout), logger)
	invoker := service.NewInvoker(predictor, cfg.OracleTimeout, m)

	router := server.NewRouter(server.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(service.NewSearchService(repo, invoker)),
		BatchHandler: handlers.NewBatchHandler(service.NewBatchService(repo, invoker, service.BatchServiceConfig{
			Workers:  cfg.BatchWorkers,
			Archiver: archiver,
			Logger:   logger,
			Metrics:  m,
		}), cfg.MaxUploadBytes),
		ExportHandler:  handlers.NewExportHandler(service.NewExportService(repo, m)),
		MetricsHandler: metrics.Handler(reg),
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "batch_workers", cfg.BatchWorkers, "model", cfg.OpenAIModel)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
