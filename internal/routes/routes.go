package routes

import (
	"time"

	"aic_backend/internal/handlers"
	"aic_backend/internal/metrics"
	"aic_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "aic_backend/docs"
)

// RegisterRoutes mounts every HTTP route of the application.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	healthHandler *handlers.HealthHandler,
	rdb *redis.Client,
) {
	healthHandler.RegisterRoutes(ginRouter)
	ginRouter.GET("/metrics", gin.WrapH(metrics.Register()))
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := ginRouter.Group("/api/v1")
	if rdb != nil {
		api.Use(middleware.IdempotencyMiddleware(rdb, 24*time.Hour))
	}
	api.GET("/ping", healthHandler.Ping)
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
		appHandlers.LoanHandler.RegisterRoutes(api)
		appHandlers.DocumentHandler.RegisterRoutes(api)
		appHandlers.ContactHandler.RegisterRoutes(api)
	}
}
