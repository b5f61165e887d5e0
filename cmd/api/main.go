package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/zack-schrag/treeline-emergency-fund/internal/config"
	"github.com/zack-schrag/treeline-emergency-fund/internal/database"
	"github.com/zack-schrag/treeline-emergency-fund/internal/handlers"
	"github.com/zack-schrag/treeline-emergency-fund/internal/logger"
	"github.com/zack-schrag/treeline-emergency-fund/internal/middleware"
	"github.com/zack-schrag/treeline-emergency-fund/internal/services"
	"github.com/zack-schrag/treeline-emergency-fund/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Treeline Emergency Fund API
// @version         1.0
// @description     Treeline tracks a household's emergency fund: how many months of runway the fund covers, how that compares to the target, and how expenses break down by tag.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators (estimator, allocation_kind)
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	goalService := services.NewGoalService(db)
	fundService := services.NewFundService(db)
	snapshotService := services.NewSnapshotService(db, fundService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewGoalHandler(goalService)
	fundHandler := handlers.NewFundHandler(fundService, auditService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Fund routes
	fund := protected.Group("/fund")
	fund.GET("/runway", fundHandler.GetRunway)
	fund.GET("/breakdown", fundHandler.GetBreakdown)
	fund.GET("/tags", fundHandler.GetTags)
	fund.GET("/config", fundHandler.GetConfig)
	fund.PUT("/config", fundHandler.UpdateConfig)

	// Snapshot routes
	fund.POST("/snapshots", snapshotHandler.CreateSnapshot)
	fund.GET("/snapshots", snapshotHandler.GetSnapshots)
	fund.DELETE("/snapshots/:id", snapshotHandler.DeleteSnapshot)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.POST("/:id/balance", accountHandler.RecordBalance)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	log.Infof("Starting Treeline backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
