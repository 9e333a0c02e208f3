package delivery

import (
	"net/http"
	"strconv"

	"optiledger-backend/internal/catalog/usecase"

	"github.com/gin-gonic/gin"
)

// CatalogHandler handles catalog lookup HTTP requests. Catalog data is
// shared across accounts, so no tenant scoping applies here.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
	}
}

// GetEntries lists observed variants, optionally for one vendor. With a
// model parameter it probes for a single variant instead.
// GET /api/catalog?vendor=safilo&model=8053/CS&color=003&size=54
func (h *CatalogHandler) GetEntries(c *gin.Context) {
	vendorID := c.Query("vendor")

	if model := c.Query("model"); model != "" {
		eyeSize, _ := strconv.Atoi(c.Query("size"))
		entry, err := h.catalogUsecase.FindVariant(vendorID, model, c.Query("color"), eyeSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "variant not observed"})
			return
		}
		c.JSON(http.StatusOK, entry)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.catalogUsecase.ListEntries(vendorID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
	})
}
