package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kedaya2025/FastNav/internal/backend"
	"github.com/kedaya2025/FastNav/internal/logger"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// New builds a Server with every API route registered.
func New(addr string, log *logger.Logger, deps Deps) *Server {
	if log == nil {
		log = logger.Nop()
	}
	router := buildRouter(log, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		log:        log,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(conn backend.Connector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if conn == nil || conn.Kind() == backend.KindNone {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend not configured"})
			return
		}
		if !conn.HealthCheck(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend not reachable", "connector": conn.Kind()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "connector": conn.Kind()})
	}
}
