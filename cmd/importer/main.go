package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/config"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/importer"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a bookmark CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	stores := repository.New(conn, log)
	imp := importer.NewCSVImporter(f, stores.Categories, stores.Websites, log)

	start := time.Now()
	summary, err := imp.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("kind", string(domain.KindOf(err))).Str("hint", domain.HintOf(err)).Msg("import failed")
	}

	log.Info().
		Int("categories", summary.Categories).
		Int("websites", summary.Websites).
		Dur("took", time.Since(start).Truncate(time.Millisecond)).
		Msg("import finished")
}
