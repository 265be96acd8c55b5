package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type migrationHandler struct {
	svc Migrator
}

func (h *migrationHandler) status(c *gin.Context) {
	pending := h.svc.CheckPending(c.Request.Context())
	respondOK(c, http.StatusOK, gin.H{"state": h.svc.State(), "pending": pending})
}

func (h *migrationHandler) run(c *gin.Context) {
	res, err := h.svc.Migrate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

type adminHandler struct {
	svc Administrator
}

func (h *adminHandler) initDB(c *gin.Context) {
	res, err := h.svc.InitDatabase(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

func (h *adminHandler) testDB(c *gin.Context) {
	respondOK(c, http.StatusOK, h.svc.Diagnose(c.Request.Context()))
}
