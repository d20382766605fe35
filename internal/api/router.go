package api

import (
	"fmt"
	"time"

	"recipe-recommender/internal/api/handlers/health"
	recipeHandler "recipe-recommender/internal/api/handlers/recipe"
	"recipe-recommender/internal/api/middleware"
	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/session"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Recommender  recipeHandler.Recommender
	Sessions     session.Store
	Images       *image.Service
	AIConfigured bool
}

// SetupRouter 設置路由；回傳的 cleanup 用於關閉中間件的背景工作
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, func(), error) {
	if deps.Recommender == nil || deps.Sessions == nil {
		return nil, nil, fmt.Errorf("router dependencies are incomplete")
	}
	if deps.Images == nil {
		deps.Images = image.NewService(cfg.Recipe.ImageURLTemplate)
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	healthHandler := health.NewHandler(cfg, deps.Sessions, deps.AIConfigured)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	dedup, stopDedup := middleware.Deduplication(cfg)
	h := recipeHandler.NewHandler(deps.Recommender, deps.Sessions, deps.Images, cfg.App.Debug)

	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	{
		api.POST("/session", h.HandleCreateSession)

		sessionGroup := api.Group("/session/:id")
		{
			sessionGroup.GET("", h.HandleGetSession)
			sessionGroup.DELETE("", h.HandleDeleteSession)
			sessionGroup.GET("/ingredients", h.HandleGetSession)
			sessionGroup.POST("/ingredients", h.HandleAddIngredient)
			sessionGroup.DELETE("/ingredients/:name", h.HandleRemoveIngredient)
			sessionGroup.POST("/search", h.HandleSearch)
			sessionGroup.GET("/results", h.HandleResults)
		}

		recipeGroup := api.Group("/recipes")
		recipeGroup.Use(dedup)
		{
			recipeGroup.POST("/preferences", h.HandlePreferences)
			recipeGroup.POST("/test", h.HandleConnectivityTest)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("ai_configured", deps.AIConfigured),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, stopDedup, nil
}
