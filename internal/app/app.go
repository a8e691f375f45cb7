package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/medleaf/healthlens-backend/internal/clients/redis"
	"github.com/medleaf/healthlens-backend/internal/db"
	"github.com/medleaf/healthlens-backend/internal/handlers"
	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/middleware"
	"github.com/medleaf/healthlens-backend/internal/observability"
	"github.com/medleaf/healthlens-backend/internal/repos"
	"github.com/medleaf/healthlens-backend/internal/server"
	"github.com/medleaf/healthlens-backend/internal/services"
)

type App struct {
	Log          *logger.Logger
	DB           *gorm.DB
	Router       *gin.Engine
	Cfg          Config
	cache        redisclient.ContextCache
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "healthlens",
		Environment: cfg.Environment,
	})

	dbService, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	// Cache is optional: without REDIS_ADDR every pass recomputes.
	var cache redisclient.ContextCache
	if cfg.RedisAddr != "" {
		cache, err = redisclient.NewContextCache(log, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTLSeconds)
		if err != nil {
			log.Warn("Redis cache init failed, continuing without cache", "error", err)
			cache = nil
		}
	}

	// Repos
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	profileRepo := repos.NewHealthProfileRepo(theDB, log)
	prefsRepo := repos.NewPreferencesRepo(theDB, log)
	topicRepo := repos.NewTopicRepo(theDB, log)

	// Services
	authSvc := services.NewAuthService(theDB, log, userRepo, userTokenRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	profileSvc := services.NewProfileService(log, profileRepo, prefsRepo, cache)
	relevanceSvc := services.NewRelevanceService(log)
	contextSvc := services.NewContextService(log)
	personalizer := services.NewPersonalizationService(log)
	interpreter := services.NewInterpreterService(log)

	// The generator is optional: without an API key the explain endpoint
	// reports itself unconfigured while everything on-device keeps working.
	var promptSvc services.PromptService
	if os.Getenv("OPENAI_API_KEY") != "" {
		aiClient, aiErr := services.NewOpenAIClient(log)
		if aiErr != nil {
			log.Warn("OpenAI client init failed, text generation disabled", "error", aiErr)
		} else {
			promptSvc = services.NewPromptService(log, aiClient)
		}
	} else {
		log.Info("OPENAI_API_KEY not set, text generation disabled")
	}

	topicSvc := services.NewTopicService(log, topicRepo, profileSvc, relevanceSvc, contextSvc, personalizer, interpreter, promptSvc, cache)

	// Handlers
	authHandler := handlers.NewAuthHandler(log, authSvc)
	profileHandler := handlers.NewProfileHandler(log, profileSvc)
	topicHandler := handlers.NewTopicHandler(log, topicSvc)
	authMiddleware := middleware.NewAuthMiddleware(log, authSvc)

	router := server.NewRouter(server.RouterConfig{
		ServiceName:    "healthlens",
		AllowOrigins:   cfg.AllowOrigins,
		AuthHandler:    authHandler,
		ProfileHandler: profileHandler,
		TopicHandler:   topicHandler,
		AuthMiddleware: authMiddleware,
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		cache:        cache,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("Cache close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
