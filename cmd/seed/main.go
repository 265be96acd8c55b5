package main

import (
	"context"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/config"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository"
	"github.com/kedaya2025/FastNav/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}).Named("seed")

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

	summary, err := seed.Apply(ctx, repository.New(conn, log))
	if err != nil {
		log.Fatal().Err(err).Str("hint", domain.HintOf(err)).Msg("seed apply")
	}

	log.Info().
		Int("categories", summary.Categories).
		Int("websites", summary.Websites).
		Int("settings", summary.Settings).
		Msg("seed applied")
}
