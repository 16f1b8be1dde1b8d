package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/squadup/squadup/internal/api"
	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/config"
	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/store/filestore"
	"github.com/squadup/squadup/internal/store/githubstore"
	"github.com/squadup/squadup/internal/store/pgstore"
	"github.com/squadup/squadup/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	persister, closeStore, err := initStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	if closeStore != nil {
		defer closeStore()
	}

	authService, err := initAuth(cfg)
	if err != nil {
		slog.Error("failed to initialize auth", "error", err)
		os.Exit(1)
	}

	rosterStore := roster.NewStore()
	registry := team.NewRegistry(rosterStore, persister, cfg.TeamSize)

	if err := registry.Load(ctx); err != nil {
		slog.Error("failed to load roster state", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	slog.Info("roster state loaded",
		"backend", cfg.StoreBackend,
		"players", len(rosterStore.List()),
		"teams", len(registry.Teams()))

	router := api.NewRouter(api.RouterDeps{
		Roster:   rosterStore,
		Registry: registry,
		Auth:     authService,
		Store:    persister,
		Version:  cfg.Version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting squadup server", "port", cfg.Port, "version", cfg.Version, "teamSize", cfg.TeamSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func initStore(ctx context.Context, cfg *config.Config) (team.Persister, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		s, err := filestore.New(cfg.DataDir)
		return s, nil, err
	case config.BackendGitHub:
		s := githubstore.New(githubstore.Config{
			Token:       cfg.GitHubToken,
			Owner:       cfg.GitHubOwner,
			Repo:        cfg.GitHubRepo,
			Branch:      cfg.GitHubBranch,
			PlayersPath: cfg.GitHubPlayersPath,
			TeamsPath:   cfg.GitHubTeamsPath,
		})
		return s, nil, nil
	case config.BackendPostgres:
		s, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func initAuth(cfg *config.Config) (*auth.Service, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		var err error
		hash, err = auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
	}
	return auth.NewService(hash), nil
}
