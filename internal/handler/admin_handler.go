package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/storage"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	brands storage.BrandRepository
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(brands storage.BrandRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{brands: brands, logger: logger}
}

// Stats returns brand counts for the ops dashboard.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	total, err := h.brands.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("counting brands", zap.Error(err), requestField(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": total,
	})
}
