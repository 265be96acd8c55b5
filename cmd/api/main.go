package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/cache"
	"github.com/kedaya2025/FastNav/internal/config"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/httpserver"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository"
	"github.com/kedaya2025/FastNav/internal/service/admin"
	"github.com/kedaya2025/FastNav/internal/service/migration"
	"github.com/kedaya2025/FastNav/internal/service/navigation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	ctx := context.Background()
	opts := backend.Options{PostgresDSN: cfg.DB.ConnectionString(), Timeout: cfg.BackendTimeout}
	if cfg.REST.Configured() {
		opts.RESTURL, opts.RESTKey = cfg.REST.URL, cfg.REST.Key
	}
	conn, err := backend.Open(ctx, opts, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open backend connector")
	}
	defer conn.Close()

	kv, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Cache.Path).Msg("open client cache")
	}
	defer kv.Close()

	stores := repository.New(conn, log)
	clientCache := cache.New(kv, cfg.Cache.MaxBytes, log)
	navigationService := navigation.New(stores, clientCache, log)
	reconciler := migration.New(stores.Categories, stores.Websites, clientCache, log)
	adminService := admin.New(conn, stores, cfg.Presence(), log)

	// Defaults are seeded only when no cache migration is pending.
	if reconciler.CheckPending(ctx) {
		log.Warn().Msg("client cache holds records not yet in the durable store; confirm with POST /api/migrate")
	} else if cfg.SeedOnStart {
		if _, err := navigationService.Initialize(ctx); err != nil {
			log.Warn().Err(err).Str("hint", domain.HintOf(err)).Msg("default seeding skipped")
		}
	}

	srv := httpserver.New(cfg.HTTPAddr, log, httpserver.Deps{
		Navigation:  navigationService,
		Migration:   reconciler,
		Admin:       adminService,
		Connector:   conn,
		CORSOrigins: cfg.CORSAllowOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("server stopped")
	}
}
