package delivery

import (
	"net/http"

	vendordomain "optiledger-backend/internal/vendors/domain"
	"optiledger-backend/internal/vendors/usecase"

	"github.com/gin-gonic/gin"
)

// VendorHandler exposes the vendor pattern configuration
type VendorHandler struct {
	store *usecase.PatternStore
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(store *usecase.PatternStore) *VendorHandler {
	return &VendorHandler{store: store}
}

// GetPatterns returns the active pattern snapshot
// GET /api/vendors/patterns
func (h *VendorHandler) GetPatterns(c *gin.Context) {
	patterns := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"patterns": patterns,
		"total":    len(patterns),
	})
}

// UpdatePattern replaces one vendor's pattern configuration; the refreshed
// snapshot is visible to the very next ingestion
// PUT /api/vendors/patterns/:vendorId
func (h *VendorHandler) UpdatePattern(c *gin.Context) {
	vendorID := c.Param("vendorId")

	var pattern vendordomain.VendorPattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pattern.VendorID = vendorID

	if err := h.store.Update(&pattern); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pattern)
}
