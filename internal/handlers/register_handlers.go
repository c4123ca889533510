package handlers

import (
	"github.com/SscSPs/billing_app/cmd/docs"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/middleware"
	"github.com/SscSPs/billing_app/internal/platform/config"
	"github.com/SscSPs/billing_app/internal/utils"
	"github.com/SscSPs/billing_app/internal/utils/paymentlink"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	linkBuilder *paymentlink.Builder,
	posthogClient *utils.PosthogClientWrapper,
	healthCheck HealthCheck,
) {
	r.GET("/health", getHealth(healthCheck))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, linkBuilder, posthogClient)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	linkBuilder *paymentlink.Builder,
	posthogClient *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	RegisterInvoiceRoutes(v1, services.Invoice, linkBuilder, posthogClient)
	RegisterExpenseRoutes(v1, services.Expense)
	RegisterDashboardRoutes(v1, services.Dashboard)
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
