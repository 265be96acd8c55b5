// Package repository assembles the record stores over the selected connector.
package repository

import (
	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/repository/category"
	"github.com/kedaya2025/FastNav/internal/repository/setting"
	"github.com/kedaya2025/FastNav/internal/repository/website"
)

// Stores holds one store per record kind, all sharing a connector.
type Stores struct {
	Categories category.Repository
	Websites   website.Repository
	Settings   setting.Repository
}

// New binds the stores to conn. An absent or unknown connector produces
// stores that fail every call with a connection error.
func New(conn backend.Connector, log *logger.Logger) Stores {
	switch c := conn.(type) {
	case *backend.REST:
		return Stores{
			Categories: category.NewREST(c, log),
			Websites:   website.NewREST(c, log),
			Settings:   setting.NewREST(c, log),
		}
	case *backend.Pool:
		return postgresStores(c, log)
	default:
		return postgresStores(nil, log)
	}
}

func postgresStores(pool *backend.Pool, log *logger.Logger) Stores {
	return Stores{
		Categories: category.NewPostgres(pool, log),
		Websites:   website.NewPostgres(pool, log),
		Settings:   setting.NewPostgres(pool, log),
	}
}
