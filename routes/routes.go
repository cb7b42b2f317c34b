package routes

import (
	"Spotit/controllers"
	"Spotit/services/history"
	"Spotit/services/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	historyService *history.HistoryService) {

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	// Read-only board definitions (created by the image CRUD surface)
	api.GET("/games", controllers.GetAllGames(db))
	api.GET("/games/:name", controllers.GetGameByName(db))

	// Finished game records
	api.GET("/histories", controllers.GetGamesHistories(historyService))
	api.DELETE("/histories", controllers.DeleteGamesHistories(historyService))

	// Per-board leaderboards
	api.GET("/besttimes/:name/:mode", controllers.GetBestTimes(redisClient))
}
