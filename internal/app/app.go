package app

import (
	"fmt"
	"net/http"

	"jobportal_backend/database"
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/imageprocessor"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/routes"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/storage"
	"jobportal_backend/internal/validator"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is not configured (jwt.secret or JWT_SECRET)")
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full engine. Tests call it with their own db.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
		SigningKey: cfg.Storage.SigningKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type, "signed_urls", storageInstance.RequiresSignedURL())

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL())

	// 1. Services
	serviceContainer := initializeServices(cfg, storageInstance, tokens)

	// 2. Handlers
	appHandlers := initializeHandlers(cfg, serviceContainer, storageInstance)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Routes
	routes.RegisterRoutes(ginRouter, appHandlers, initializeGuards(cfg, tokens))

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, tokens *auth.TokenManager) *services.ServiceContainer {
	return services.NewServiceContainer(services.Dependencies{
		Storage: storageInstance,
		Tokens:  tokens,
		UploadRules: services.UploadRules{
			Document: services.CategoryRule{
				MaxSize:      cfg.Upload.DocumentMaxSize,
				AllowedTypes: cfg.Upload.DocumentAllowedTypes,
			},
			Avatar: services.CategoryRule{
				MaxSize:      cfg.Upload.AvatarMaxSize,
				AllowedTypes: cfg.Upload.AvatarAllowedTypes,
			},
		},
		Images: imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.AvatarDimension),
		Delivery: services.DeliveryConfig{
			SignedURLExpiry: cfg.SignedURLTTL(),
			ProxyTimeout:    cfg.ProxyTimeout(),
		},
		Policy: services.ApplicationPolicy{
			StrictStatusTransitions: cfg.Applications.StrictStatusTransitions,
		},
	})
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer, storageInstance storage.Storage) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	appHandlers := &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, svc.AuthService),
		CompanyHandler:     handlers.NewCompanyHandler(baseHandler, svc.CompanyService),
		JobHandler:         handlers.NewJobHandler(baseHandler, svc.JobService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, svc.ApplicationService, cfg.Upload.DocumentMaxSize),
		DocumentHandler:    handlers.NewDocumentHandler(baseHandler, svc.DocumentService),
		SavedJobHandler:    handlers.NewSavedJobHandler(baseHandler, svc.SavedJobService),
	}

	if local, ok := storageInstance.(*storage.LocalStorage); ok {
		appHandlers.FileHandler = handlers.NewFileHandler(baseHandler, local)
	}
	return appHandlers
}

func initializeGuards(cfg *config.Config, tokens *auth.TokenManager) handlers.Guards {
	guards := handlers.Guards{
		Auth:      middleware.AuthMiddleware(tokens),
		Candidate: middleware.RequireRoles(models.UserRoleCandidate),
		Recruiter: middleware.RequireRoles(models.UserRoleRecruiter),
		ApplyRate: passthrough,
		AuthRate:  passthrough,
	}
	if !cfg.RateLimit.Enabled {
		return guards
	}

	var limiter middleware.Limiter
	if cfg.RateLimit.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		limiter = middleware.NewRedisLimiter(client, "jobportal:ratelimit")
		logger.Info("Rate limiter initialized", "backend", "redis", "addr", cfg.RateLimit.RedisAddr)
	} else {
		limiter = middleware.NewMemoryLimiter()
		logger.Info("Rate limiter initialized", "backend", "memory")
	}

	window := cfg.RateLimitWindow()
	guards.ApplyRate = middleware.RateLimit(limiter, "apply", cfg.RateLimit.ApplyLimit, window)
	guards.AuthRate = middleware.RateLimit(limiter, "auth", cfg.RateLimit.AuthLimit, window)
	return guards
}

func passthrough(c *gin.Context) {
	c.Next()
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}
