package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"budgetmate/internal/config"
	"budgetmate/internal/database"
	"budgetmate/internal/handlers"
	"budgetmate/internal/logger"
	"budgetmate/internal/mailer"
	"budgetmate/internal/middleware"
	"budgetmate/internal/services"
	"budgetmate/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budgetmate/internal/docs" // Import swagger docs
)

// @title           BudgetMate API
// @version         1.0
// @description     BudgetMate is a personal finance tracker covering income and expenses, savings goals with contribution bookkeeping, dashboards, and downloadable reports.

// @host      localhost:8080
// @BasePath  /api

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	goalService := services.NewGoalService(db)
	reportService := services.NewReportService(userService, transactionService, goalService)
	resetMailer := mailer.New(appConfig)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, transactionService, goalService, resetMailer)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewGoalHandler(goalService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(userService, transactionService, goalService)

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
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Profile
	protected.GET("/auth/me", authHandler.GetProfile)
	protected.PUT("/auth/me", authHandler.UpdateProfile)

	// Dashboard
	protected.GET("/dashboard", transactionHandler.GetDashboard)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/categories", transactionHandler.GetCategoryBreakdown)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Goal routes
	goals := protected.Group("/goals")
	goals.GET("", goalHandler.ListGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/contributions", goalHandler.ListContributions)
	goals.POST("/:id/contributions", goalHandler.AddContribution)
	goals.PUT("/:id/contributions/:contributionId", goalHandler.UpdateContribution)
	goals.DELETE("/:id/contributions/:contributionId", goalHandler.DeleteContribution)

	// Report routes
	protected.GET("/reports/me", reportHandler.DownloadMyReport)

	// Admin routes
	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/admin/users", adminHandler.ListUsers)
	admin.PUT("/admin/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/admin/users/:id", adminHandler.DeleteUser)
	admin.GET("/admin/users/:id/overview", adminHandler.GetUserOverview)
	admin.GET("/admin/transactions", adminHandler.ListTransactions)
	admin.DELETE("/admin/transactions/:id", adminHandler.DeleteTransaction)
	admin.GET("/reports/user/:id", reportHandler.DownloadUserReport)

	log.Infof("Starting BudgetMate backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
