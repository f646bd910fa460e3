package app

import (
	"context"
	"errors"
	"fmt"

	"aic_backend/database"
	"aic_backend/internal/auth"
	"aic_backend/internal/config"
	"aic_backend/internal/email"
	"aic_backend/internal/handlers"
	"aic_backend/internal/logger"
	"aic_backend/internal/metrics"
	"aic_backend/internal/middleware"
	"aic_backend/internal/models"
	"aic_backend/internal/routes"
	"aic_backend/internal/services"
	"aic_backend/internal/storage"
	"aic_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	if err := config.LoadConfig(); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Database connected and migrated")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, container := SetupRouter(cfg, gormDB)

	sweeper := workers.NewOrphanSweeper(gormDB, container.Storage, container.Repositories.Document)
	go sweeper.Run(context.Background())

	janitor := workers.NewTokenJanitor(gormDB, container.Repositories.RefreshToken)
	go janitor.Run(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine plus the service container. Tests
// reuse it against an in-memory database.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var emailProvider email.Provider
	if sender, err := email.NewGomailSender(cfg); err == nil {
		emailProvider = sender
	} else {
		logger.Warn("SMTP not configured, outbound email disabled", "reason", err)
		emailProvider = email.NoopSender{}
	}

	container := services.NewServiceContainer(storageInstance, emailProvider)
	appHandlers := handlers.NewAppHandlers(container)
	healthHandler := handlers.NewHealthHandler(gormDB)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("Redis connected, idempotency enabled", "addr", cfg.Redis.Addr)
	}

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, healthHandler, rdb)

	return ginRouter, container
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	router.MaxMultipartMemory = 16 << 20
	return router
}

// seedFirstAdmin bootstraps the admin account from the environment so a
// fresh deployment is reachable. User and profile commit together.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		result := tx.Where("email = ?", adminEmail).First(&existing)
		if result.Error == nil {
			logger.Info("Admin user already exists, skipping creation", "email", adminEmail)
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", result.Error)
		}

		logger.Warn("No admin user found, creating first admin", "email", adminEmail)

		hashed, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Email:        adminEmail,
			PasswordHash: hashed,
			Role:         models.UserRoleAdmin,
			IsActive:     true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		profile := &models.Profile{
			ID:        admin.ID,
			Email:     admin.Email,
			FirstName: "Admin",
			Role:      models.UserRoleAdmin,
		}
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}
		return nil
	})
}
