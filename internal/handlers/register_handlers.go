package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/propnest_backend/cmd/docs"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/middleware"
	"github.com/SscSPs/propnest_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("invalid login rate limit %q: %w", cfg.LoginRateLimit, err)
	}
	redeemLimiter, err := middleware.NewMemoryLimiter(cfg.RedeemRateLimit)
	if err != nil {
		return fmt.Errorf("invalid redeem rate limit %q: %w", cfg.RedeemRateLimit, err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Public authentication routes
	public := r.Group("/api/v1")
	registerAuthRoutes(public, services, middleware.RateLimit(loginLimiter))

	setupAPIV1Routes(r, cfg, services, middleware.RateLimit(redeemLimiter))

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	redeemLimit gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, services.Account)
	registerPointsRoutes(v1, services.Points)
	registerRewardRoutes(v1, services.Reward, redeemLimit)
	registerListingRoutes(v1, services.Listing)

	admin := v1.Group("/admin", middleware.RequireAdmin())
	registerAdminRewardRoutes(admin, services.Reward)
	registerAdminPointsRoutes(admin, services.Points, services.Notifier)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
