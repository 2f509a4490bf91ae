// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/config"
	"github.com/franchisehub/brochure-service/internal/handler"
	"github.com/franchisehub/brochure-service/internal/middleware"
	"github.com/franchisehub/brochure-service/internal/service"
	"github.com/franchisehub/brochure-service/internal/storage"
)

// Deps carries the wired dependencies routes need. Dependencies are passed
// explicitly — no DI container.
type Deps struct {
	Brochures *service.BrochureService
	Brands    storage.BrandRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	brochureHandler := handler.NewBrochureHandler(deps.Brochures, deps.Brands, logger)
	adminHandler := handler.NewAdminHandler(deps.Brands, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	// Stored brochures are served directly under the public files path, so
	// the URLs written into artifact metadata resolve without an API key.
	r.Static("/files", cfg.Storage.ObjectDir)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	{
		authed.GET("/brands/:id/brochure", brochureHandler.Stat)
		authed.GET("/brands/:id/brochure/download", brochureHandler.Download)
		authed.GET("/brands/:id/brochure/validation", brochureHandler.Validate)
		authed.DELETE("/brands/:id/brochure", brochureHandler.Delete)

		// Generation is user-triggered repeatedly; only these routes get the
		// token-bucket limiter.
		generate := authed.Group("")
		generate.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		{
			generate.POST("/brands/:id/brochure", brochureHandler.Generate)
			generate.POST("/brands/:id/brochure/regenerate", brochureHandler.Regenerate)
		}
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
