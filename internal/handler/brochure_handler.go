// Package handler contains HTTP request handlers. In Gin, a handler is any
// function with signature func(*gin.Context), grouped here by resource.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/model"
	"github.com/franchisehub/brochure-service/internal/service"
	"github.com/franchisehub/brochure-service/internal/storage"
)

// BrochureHandler exposes the artifact lifecycle over HTTP.
type BrochureHandler struct {
	brochures *service.BrochureService
	brands    storage.BrandRepository
	logger    *zap.Logger
}

// NewBrochureHandler creates a BrochureHandler.
func NewBrochureHandler(brochures *service.BrochureService, brands storage.BrandRepository, logger *zap.Logger) *BrochureHandler {
	return &BrochureHandler{brochures: brochures, brands: brands, logger: logger}
}

// requestField carries the correlation ID set by the RequestID middleware
// into handler log entries. Empty when the middleware isn't in the chain.
func requestField(c *gin.Context) zap.Field {
	return zap.String("request_id", c.GetString("request_id"))
}

// Generate runs the full pipeline for a brand and returns the artifact.
// Route: POST /api/v1/brands/:id/brochure
func (h *BrochureHandler) Generate(c *gin.Context) {
	brandID := c.Param("id")

	profile, err := h.brands.GetByID(c.Request.Context(), brandID)
	if err != nil {
		h.respondLookupError(c, brandID, err)
		return
	}

	artifact, err := h.brochures.GenerateAndStore(c.Request.Context(), profile)
	if err != nil {
		h.respondPipelineError(c, brandID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brochure": artifact})
}

// Regenerate re-fetches the profile and overwrites the previous artifact.
// Route: POST /api/v1/brands/:id/brochure/regenerate
func (h *BrochureHandler) Regenerate(c *gin.Context) {
	brandID := c.Param("id")

	artifact, err := h.brochures.Regenerate(c.Request.Context(), brandID)
	if err != nil {
		if errors.Is(err, storage.ErrBrandNotFound) {
			h.respondLookupError(c, brandID, err)
			return
		}
		h.respondPipelineError(c, brandID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brochure": artifact})
}

// Stat reports brochure existence and metadata for dashboards.
// Route: GET /api/v1/brands/:id/brochure
func (h *BrochureHandler) Stat(c *gin.Context) {
	brandID := c.Param("id")

	stat, err := h.brochures.Stat(c.Request.Context(), brandID)
	if err != nil {
		h.logger.Error("brochure stat",
			zap.String("brand_id", brandID),
			zap.Error(err),
			requestField(c),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Absence is data, not an error: still a 200.
	c.JSON(http.StatusOK, stat)
}

// Download streams the stored PDF.
// Route: GET /api/v1/brands/:id/brochure/download
func (h *BrochureHandler) Download(c *gin.Context) {
	brandID := c.Param("id")

	data, artifact, err := h.brochures.Open(c.Request.Context(), brandID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "brochure not found"})
			return
		}
		h.logger.Error("brochure download",
			zap.String("brand_id", brandID),
			zap.Error(err),
			requestField(c),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, model.BrochureContentType, data)
}

// Delete removes the brochure binary and metadata. Idempotent: deleting an
// absent brochure is still a 204.
// Route: DELETE /api/v1/brands/:id/brochure
func (h *BrochureHandler) Delete(c *gin.Context) {
	brandID := c.Param("id")

	if err := h.brochures.Delete(c.Request.Context(), brandID); err != nil {
		h.logger.Error("brochure delete",
			zap.String("brand_id", brandID),
			zap.Error(err),
			requestField(c),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Validate previews profile completeness without generating anything.
// Route: GET /api/v1/brands/:id/brochure/validation
func (h *BrochureHandler) Validate(c *gin.Context) {
	brandID := c.Param("id")

	profile, err := h.brands.GetByID(c.Request.Context(), brandID)
	if err != nil {
		h.respondLookupError(c, brandID, err)
		return
	}

	c.JSON(http.StatusOK, h.brochures.Validate(profile))
}

func (h *BrochureHandler) respondLookupError(c *gin.Context, brandID string, err error) {
	if errors.Is(err, storage.ErrBrandNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
		return
	}
	h.logger.Error("brand lookup",
		zap.String("brand_id", brandID),
		zap.Error(err),
		requestField(c),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *BrochureHandler) respondPipelineError(c *gin.Context, brandID string, err error) {
	h.logger.Warn("brochure pipeline",
		zap.String("brand_id", brandID),
		zap.Error(err),
		requestField(c),
	)
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorage):
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage failure, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "brochure generation failed"})
	}
}
