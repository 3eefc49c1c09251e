package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ordering/cmd"
	"ordering/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := newLogger(configs.LogLevel)

	if err := run(configs, logger); err != nil {
		logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(configs cmd.Config, logger *slog.Logger) error {
	if err := configs.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	storage, err := openStorage(configs, logger)
	if err != nil {
		return err
	}

	app := cmd.NewCompositionRoot(configs, storage, logger)
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Failed to close event publisher", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.RebuildReadModel(ctx); err != nil {
		return fmt.Errorf("initial read model rebuild: %w", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs.HTTPPort, logger)
}

func openStorage(configs cmd.Config, logger *slog.Logger) (cmd.Storage, error) {
	if configs.Storage == cmd.StorageMemory {
		logger.Warn("Using in-memory storage; orders are lost on restart")
		return cmd.NewMemoryStorage(), nil
	}

	dsn := configs.DSN()
	if err := postgres.Migrate(dsn); err != nil {
		return cmd.Storage{}, fmt.Errorf("migrate database: %w", err)
	}
	gormDB, err := postgres.Open(dsn)
	if err != nil {
		return cmd.Storage{}, fmt.Errorf("connect database: %w", err)
	}
	return cmd.NewPostgresStorage(gormDB), nil
}

func getConfigs() cmd.Config {
	loadDotEnv()

	defaults := cmd.DefaultConfig()
	config := cmd.Config{
		HTTPPort:                 envOrDefault("HTTP_PORT", defaults.HTTPPort),
		LogLevel:                 envOrDefault("LOG_LEVEL", defaults.LogLevel),
		Storage:                  envOrDefault("STORAGE", defaults.Storage),
		DBHost:                   envOrDefault("DB_HOST", defaults.DBHost),
		DBPort:                   envOrDefault("DB_PORT", defaults.DBPort),
		DBUser:                   envOrDefault("DB_USER", defaults.DBUser),
		DBPassword:               envOrDefault("DB_PASSWORD", defaults.DBPassword),
		DBName:                   envOrDefault("DB_NAME", defaults.DBName),
		DBSslMode:                envOrDefault("DB_SSLMODE", defaults.DBSslMode),
		KafkaBrokers:             envOrDefault("KAFKA_BROKERS", defaults.KafkaBrokers),
		KafkaOrderStatusTopic:    envOrDefault("KAFKA_ORDER_STATUS_TOPIC", defaults.KafkaOrderStatusTopic),
		ReadModelRefreshSchedule: envOrDefault("READ_MODEL_REFRESH_SCHEDULE", defaults.ReadModelRefreshSchedule),
	}
	return config
}

// loadDotEnv reads .env when present; variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	e, err := app.CreateRouter()
	if err != nil {
		return err
	}
	e.Logger.SetLevel(log.WARN)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", port)
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			errCh <- startErr
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
