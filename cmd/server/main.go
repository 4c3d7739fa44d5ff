package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/pocket-ledger/backend/internal/config"
	"example.com/pocket-ledger/backend/internal/database"
	"example.com/pocket-ledger/backend/internal/repository"
	"example.com/pocket-ledger/backend/internal/server"
)

const refreshPruneInterval = 12 * time.Hour

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	db, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		db.Close()
	}()

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go pruneRefreshTokens(janitorCtx, logger, repository.NewRefreshTokenRepository(db))

	e, hub := server.New(cfg, logger, db)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	logger.Info("starting server", slog.String("addr", httpServer.Addr))
	go func() {
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	hub.Close()
}

// pruneRefreshTokens раз в refreshPruneInterval чистит просроченные
// refresh-токены, первый проход сразу при старте.
func pruneRefreshTokens(ctx context.Context, logger *slog.Logger, tokens *repository.RefreshTokenRepository) {
	ticker := time.NewTicker(refreshPruneInterval)
	defer ticker.Stop()

	for {
		removed, err := tokens.DeleteExpired(ctx, time.Now())
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("refresh token prune failed", slog.String("error", err.Error()))
		} else if removed > 0 {
			logger.Info("pruned expired refresh tokens", slog.Int64("removed", removed))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
