package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/medleaf/healthlens-backend/internal/handlers"
	"github.com/medleaf/healthlens-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AllowOrigins   []string
	AuthHandler    *handlers.AuthHandler
	ProfileHandler *handlers.ProfileHandler
	TopicHandler   *handlers.TopicHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/logout", cfg.AuthHandler.Logout)

	api.GET("/profile", cfg.ProfileHandler.GetProfile)
	api.PUT("/profile", cfg.ProfileHandler.ReplaceProfile)
	api.GET("/preferences", cfg.ProfileHandler.GetPreferences)
	api.PUT("/preferences", cfg.ProfileHandler.UpdatePreferences)

	api.GET("/topics", cfg.TopicHandler.ListTopics)
	api.GET("/topics/:id", cfg.TopicHandler.GetTopic)
	api.GET("/topics/slug/:slug", cfg.TopicHandler.GetTopicBySlug)
	api.GET("/topics/:id/personalized", cfg.TopicHandler.PersonalizeTopic)
	api.POST("/topics/:id/explain", cfg.TopicHandler.ExplainTopic)
	api.GET("/labs/:id/interpretation", cfg.TopicHandler.InterpretLab)
	api.GET("/medications/:id/context", cfg.TopicHandler.MedicationContext)

	return router
}
