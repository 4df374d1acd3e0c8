package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/response"
)

// CatalogHandler exposes the option lists the editor and paper forms offer.
type CatalogHandler struct {
	catalog *config.Catalog
}

func NewCatalogHandler(catalog *config.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Get godoc
// GET /api/v1/catalog
func (h *CatalogHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, h.catalog)
}
