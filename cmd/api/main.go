package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"outgo/internal/config"
	"outgo/internal/database"
	"outgo/internal/fx"
	"outgo/internal/handlers"
	"outgo/internal/logger"
	"outgo/internal/middleware"
	"outgo/internal/notifier"
	"outgo/internal/services"
	"outgo/internal/validator"

	_ "outgo/internal/docs" // Import swagger docs
)

// @title           Outgo API
// @version         1.0
// @description     Outgo is a personal expense tracker with multi-currency monthly summaries and budget alerts.
// @termsOfService  http://swagger.io/terms/

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
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// External clients
	converter := fx.NewConverter(
		&http.Client{Timeout: appConfig.FxRequestTimeout},
		appConfig.FxBaseURL,
		fx.NewMemoryCache(),
	)
	dispatcher := notifier.NewClient(
		&http.Client{Timeout: appConfig.RelayRequestTimeout},
		appConfig.RelayBaseURL,
		appConfig.RelayAPIKey,
	)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	budgetService := services.NewBudgetService(db)
	profileService := services.NewProfileService(db)
	summaryService := services.NewSummaryService(
		converter, expenseService, categoryService, budgetService, profileService, dispatcher,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, summaryService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, summaryService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	settingsHandler := handlers.NewSettingsHandler(profileService, auditService)
	notificationHandler := handlers.NewNotificationHandler(dispatcher)

	// Custom binding validators
	validator.Register()

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
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Current user
	protected.GET("/auth/me", authHandler.Me)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.PUT("/:month", budgetHandler.SetBudget)
	budgets.GET("/:month", budgetHandler.GetBudget)
	budgets.GET("/:month/status", budgetHandler.GetBudgetStatus)
	budgets.DELETE("/:month", budgetHandler.DeleteBudget)

	// Summary routes
	protected.GET("/summary/:month", summaryHandler.GetMonthlySummary)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("/currency", settingsHandler.SetBaseCurrency)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.POST("/subscribe", notificationHandler.Subscribe)
	notifications.POST("/test", notificationHandler.TestNotification)

	log.Infof("Starting Outgo backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
