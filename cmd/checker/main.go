package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"stockwatch/internal/api"
	"stockwatch/internal/browser"
	"stockwatch/internal/checker"
	"stockwatch/internal/config"
	"stockwatch/internal/database"
	"stockwatch/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("checker exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	relay := database.NewRelay(db, redisClient, logger, database.RelayConfig{})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	notifier, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.OperatorChatID, logger)
	if err != nil {
		return err
	}

	registry := checker.DefaultRegistry(logger)

	newSession := func() (checker.Session, error) {
		return browser.New(&browser.Options{
			Headless:       cfg.Browser.Headless,
			Timeout:        cfg.Browser.Timeout,
			UserAgent:      browser.DefaultOptions().UserAgent,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			Locale:         cfg.Browser.Locale,
			TimezoneID:     cfg.Browser.TimezoneID,
		})
	}

	engine := checker.New(db, notifier, registry, newSession, checker.Config{
		Concurrency: cfg.Checker.Concurrency,
		MaxRetries:  cfg.Checker.MaxRetries,
		RetryDelay:  cfg.Checker.RetryDelay,
	}, logger)

	srv := startAPIServer(cfg, db, relay, logger)
	defer shutdownAPIServer(srv, cfg.Server.ShutdownTimeout, logger)

	logger.Info("checker running", "interval", cfg.Checker.Interval)

	runBatch(ctx, engine, logger)

	ticker := time.NewTicker(cfg.Checker.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return ctx.Err()
		case <-ticker.C:
			runBatch(ctx, engine, logger)
		}
	}
}

// runBatch shields the in-flight batch from shutdown cancellation so a
// half-finished check still gets its log row written.
func runBatch(ctx context.Context, engine *checker.Checker, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}

	batchCtx := context.WithoutCancel(ctx)
	if _, err := engine.RunBatch(batchCtx); err != nil {
		logger.Error("batch failed", "error", err)
	}
}

func startAPIServer(cfg *config.Config, db *database.DB, relay *database.Relay, logger *slog.Logger) *http.Server {
	handler := api.NewHandler(db, relay, logger)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: api.NewRouter(handler),
	}

	go func() {
		logger.Info("api server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err)
		}
	}()

	return srv
}

func shutdownAPIServer(srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
