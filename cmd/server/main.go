package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minisocial/internal/api"
	"minisocial/internal/app/service"
	"minisocial/internal/common/security"
	"minisocial/internal/domain/repository"
	"minisocial/internal/platform/config"
	"minisocial/internal/platform/database"
	"minisocial/internal/platform/queue"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.String("port", cfg.Port),
		slog.Bool("dotenv", cfg.DotEnvLoaded))
	if !cfg.DotEnvLoaded {
		logger.Info("no .env file found, relying on environment variables")
	}

	ctx := context.Background()

	// 2. Initialize Database
	if err := database.EnsureDatabase(ctx, cfg); err != nil {
		return err
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	if err := database.Bootstrap(ctx, db); err != nil {
		return err
	}
	logger.Info("database ready", slog.String("database", cfg.DBName))

	// 3. Initialize Redis (optional)
	var publisher service.PostEventPublisher
	if cfg.RedisAddr != "" {
		rdb, err := queue.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRedis(rdb, logger)
		publisher = queue.NewPostEventPublisher(rdb, cfg.PostEventsQueue)
	} else {
		logger.Info("REDIS_ADDR not set, post events disabled")
	}

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	postRepo := repository.NewPgPostRepository(db)

	// 5. Initialize Services
	tokens := security.NewTokenIssuer(cfg.JWTKey)
	authService := service.NewAuthService(userRepo, tokens)
	postService := service.NewPostService(postRepo, publisher, logger)

	// 6. Initialize Router & HTTP Server
	router, err := api.NewRouter(authService, postService, db, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case sig := <-stop:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped gracefully")
	return nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}

func closeRedis(rdb *redis.Client, logger *slog.Logger) {
	if err := rdb.Close(); err != nil {
		logger.Error("failed to close redis", slog.Any("error", err))
	}
}
