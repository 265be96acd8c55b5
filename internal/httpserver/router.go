package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/service/admin"
	"github.com/kedaya2025/FastNav/internal/service/migration"
	"github.com/kedaya2025/FastNav/internal/service/navigation"
)

// Navigator is the tiered resolver as seen by the handlers.
type Navigator interface {
	ListCategories(ctx context.Context) navigation.Listing[domain.Category]
	SaveCategories(ctx context.Context, cs []domain.Category) (navigation.WriteResult, error)
	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, navigation.WriteResult, error)
	UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (*domain.Category, navigation.WriteResult, error)
	DeleteCategory(ctx context.Context, id string) navigation.WriteResult

	ListWebsites(ctx context.Context) navigation.Listing[domain.Website]
	SaveWebsites(ctx context.Context, ws []domain.Website) (navigation.WriteResult, error)
	SaveWebsite(ctx context.Context, p domain.WebsitePatch) (*domain.Website, navigation.WriteResult, error)
	DeleteWebsite(ctx context.Context, id string) navigation.WriteResult

	ListSettings(ctx context.Context, keys []string) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error

	Export(ctx context.Context) navigation.Export
}

// Migrator offers and runs the cache-to-durable migration.
type Migrator interface {
	State() migration.State
	CheckPending(ctx context.Context) bool
	Migrate(ctx context.Context) (migration.Result, error)
}

// Administrator initializes and diagnoses the durable backend.
type Administrator interface {
	InitDatabase(ctx context.Context) (admin.InitResult, error)
	Diagnose(ctx context.Context) admin.Diagnosis
}

// Deps groups the services the router dispatches to.
type Deps struct {
	Navigation  Navigator
	Migration   Migrator
	Admin       Administrator
	Connector   backend.Connector
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(log *logger.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log.Named("http")), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Connector))

	api := router.Group("/api")

	nav := &navigationHandler{svc: deps.Navigation}
	api.GET("/categories", nav.listCategories)
	api.PUT("/categories", nav.saveCategories)
	api.POST("/categories", nav.createCategory)
	api.PATCH("/categories/:id", nav.updateCategory)
	api.DELETE("/categories/:id", nav.deleteCategory)

	api.GET("/websites", nav.listWebsites)
	api.PUT("/websites", nav.saveWebsites)
	api.POST("/websites", nav.saveWebsite)
	api.PUT("/websites/:id", nav.saveWebsite)
	api.DELETE("/websites/:id", nav.deleteWebsite)

	api.GET("/settings", nav.listSettings)
	api.POST("/settings", nav.saveSettings)

	api.GET("/export", nav.export)

	mig := &migrationHandler{svc: deps.Migration}
	api.GET("/migrate", mig.status)
	api.POST("/migrate", mig.run)

	adm := &adminHandler{svc: deps.Admin}
	api.POST("/admin/init-db", adm.initDB)
	api.GET("/admin/test-db", adm.testDB)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
