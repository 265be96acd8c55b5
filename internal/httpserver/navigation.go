package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kedaya2025/FastNav/internal/domain"
)

type navigationHandler struct {
	svc Navigator
}

type saveCategoriesRequest struct {
	Categories []domain.Category `json:"categories" binding:"required"`
}

type saveWebsitesRequest struct {
	Websites []domain.Website `json:"websites" binding:"required"`
}

type saveSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

func (h *navigationHandler) listCategories(c *gin.Context) {
	respondListing(c, h.svc.ListCategories(c.Request.Context()))
}

func (h *navigationHandler) saveCategories(c *gin.Context) {
	var req saveCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badBody(err))
		return
	}
	res, err := h.svc.SaveCategories(c.Request.Context(), req.Categories)
	if err != nil {
		respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, gin.H{"saved": len(req.Categories)}, res)
}

func (h *navigationHandler) createCategory(c *gin.Context) {
	var in domain.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, badBody(err))
		return
	}
	created, res, err := h.svc.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondWrite(c, http.StatusCreated, created, res)
}

func (h *navigationHandler) updateCategory(c *gin.Context) {
	var p domain.CategoryPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, badBody(err))
		return
	}
	updated, res, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, updated, res)
}

func (h *navigationHandler) deleteCategory(c *gin.Context) {
	id := c.Param("id")
	respondWrite(c, http.StatusOK, gin.H{"id": id}, h.svc.DeleteCategory(c.Request.Context(), id))
}

func (h *navigationHandler) listWebsites(c *gin.Context) {
	respondListing(c, h.svc.ListWebsites(c.Request.Context()))
}

func (h *navigationHandler) saveWebsites(c *gin.Context) {
	var req saveWebsitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badBody(err))
		return
	}
	res, err := h.svc.SaveWebsites(c.Request.Context(), req.Websites)
	if err != nil {
		respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, gin.H{"saved": len(req.Websites)}, res)
}

// saveWebsite serves both POST /websites and PUT /websites/:id. A path id
// overrides any id in the body.
func (h *navigationHandler) saveWebsite(c *gin.Context) {
	var p domain.WebsitePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, badBody(err))
		return
	}
	if id := c.Param("id"); id != "" {
		p.ID = id
	}
	saved, res, err := h.svc.SaveWebsite(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondWrite(c, http.StatusOK, saved, res)
}

func (h *navigationHandler) deleteWebsite(c *gin.Context) {
	id := c.Param("id")
	respondWrite(c, http.StatusOK, gin.H{"id": id}, h.svc.DeleteWebsite(c.Request.Context(), id))
}

func (h *navigationHandler) listSettings(c *gin.Context) {
	var keys []string
	for _, k := range strings.Split(c.Query("keys"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	values, err := h.svc.ListSettings(c.Request.Context(), keys)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, values)
}

func (h *navigationHandler) saveSettings(c *gin.Context) {
	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badBody(err))
		return
	}
	if err := h.svc.SaveSettings(c.Request.Context(), req.Settings); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, req.Settings)
}

func (h *navigationHandler) export(c *gin.Context) {
	ex := h.svc.Export(c.Request.Context())
	categories, websites := ex.Categories.Items, ex.Websites.Items
	if categories == nil {
		categories = []domain.Category{}
	}
	if websites == nil {
		websites = []domain.Website{}
	}
	respondOK(c, http.StatusOK, gin.H{
		"categories": categories,
		"websites":   websites,
		"sources": gin.H{
			"categories": ex.Categories.Source,
			"websites":   ex.Websites.Source,
		},
	})
}
