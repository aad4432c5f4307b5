package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/config"
	"github.com/kendall-kelly/ganges-support-api/controllers"
	"github.com/kendall-kelly/ganges-support-api/middleware"
	"github.com/kendall-kelly/ganges-support-api/services"
	"github.com/kendall-kelly/ganges-support-api/store"
	"github.com/kendall-kelly/ganges-support-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	config.SetConfig(cfg)
	utils.InitLogger(cfg.LogLevel)
	slog.Info("starting Ganges Support API", "env", cfg.GoEnv, "blob_backend", cfg.BlobBackend)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(); err != nil {
		fatal("failed to connect to database", err)
	}

	chatStore := store.NewGormStore(config.GetDB())
	if err := chatStore.Migrate(); err != nil {
		fatal("failed to migrate database", err)
	}
	slog.Info("database migration completed")

	utils.UploadDir = cfg.UploadDir
	blobs, err := services.InitBlobStore(context.Background(), cfg)
	if err != nil {
		fatal("failed to initialize blob store", err)
	}
	services.InitChatService(cfg, chatStore, blobs)

	auth, err := middleware.EnsureValidToken(cfg)
	if err != nil {
		fatal("failed to set up authentication", err)
	}

	router := newRouter(cfg, auth)

	addr := ":" + cfg.Port
	slog.Info("server is running", "addr", addr)
	if err := router.Run(addr); err != nil {
		fatal("server stopped", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// newRouter builds the gin engine with CORS, health endpoints and the support API
func newRouter(cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = 8 << 20

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}
	controllers.RegisterRoutes(v1, auth)

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ganges Support API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Migrator works for both PostgreSQL and SQLite
	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
