// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fatturo/internal/domain/analytics"
	"fatturo/internal/domain/auth"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
	"fatturo/internal/domain/target"
	"fatturo/internal/infrastructure/http/v1/handlers"
	"fatturo/internal/infrastructure/http/v1/middleware"
	"fatturo/internal/infrastructure/storage/postgres"
	"fatturo/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService        *auth.Service
	OpportunityService *opportunity.Service
	InvoiceService     *invoice.Service
	TargetService      *target.Service
	AnalyticsService   *analytics.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(cfg.AuthService)
		apiV1.POST("/auth/login", authHandler.Login)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/refresh", authHandler.Refresh)
		protected.POST("/auth/register", middleware.RequireAdmin(), authHandler.Register)

		oppHandler := handlers.NewOpportunityHandler(cfg.OpportunityService)
		opps := protected.Group("/opportunities")
		{
			opps.POST("", oppHandler.Create)
			opps.GET("", oppHandler.List)
			opps.GET("/:id", oppHandler.Get)
			opps.PUT("/:id", oppHandler.Update)
			opps.POST("/:id/transition", oppHandler.TransitionStage)
			opps.DELETE("/:id", oppHandler.Delete)
		}

		invHandler := handlers.NewInvoiceHandler(cfg.InvoiceService)
		invs := protected.Group("/invoices")
		{
			invs.POST("", invHandler.Create)
			invs.GET("", invHandler.List)
			invs.GET("/:id", invHandler.Get)
			invs.PUT("/:id", invHandler.Update)
			invs.POST("/:id/status", invHandler.SetStatus)
			invs.DELETE("/:id", invHandler.Delete)
		}

		targetHandler := handlers.NewTargetHandler(cfg.TargetService)
		targets := protected.Group("/targets")
		{
			targets.PUT("", targetHandler.Set)
			targets.PUT("/year", targetHandler.SetYear)
			targets.GET("/:year", targetHandler.GetYear)
		}

		analyticsHandler := handlers.NewAnalyticsHandler(cfg.AnalyticsService)
		reports := protected.Group("/analytics")
		{
			reports.GET("/revenue", analyticsHandler.Revenue)
			reports.GET("/forfettario", analyticsHandler.Forfettario)
			reports.GET("/monthly", analyticsHandler.MonthlyCumulative)
			reports.GET("/won", analyticsHandler.WonRollup)
		}
	}

	return router
}
