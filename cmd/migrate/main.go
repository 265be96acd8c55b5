package main

import (
	"context"
	"flag"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/config"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "Roll back the most recent migration instead of applying")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}).Named("migrate")

	dsn := cfg.DB.ConnectionString()
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_URL or POSTGRES_HOST is required; the REST proxy cannot run schema changes")
	}

	ctx := context.Background()
	pool, err := backend.NewPool(ctx, dsn, cfg.BackendTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("roll back migration")
		}
		log.Info().Msg("migration rolled back")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}
	if version, dirty, ok, err := migrate.Version(ctx, pool); err == nil && ok {
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
		return
	}
	log.Info().Msg("migrations applied")
}
