// Package server assembles the services and the Gin router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"pennywise/internal/classifier"
	"pennywise/internal/clock"
	_ "pennywise/internal/docs" // swagger spec
	"pennywise/internal/events"
	"pennywise/internal/handlers"
	"pennywise/internal/logger"
	"pennywise/internal/middleware"
	"pennywise/internal/services"
)

// Services groups the application services sharing one database.
type Services struct {
	Transactions services.TransactionServicer
	Categories   services.CategoryServicer
	Budgets      services.BudgetServicer
	Insights     services.InsightServicer
	Audit        services.AuditServicer
}

// NewServices wires the services over db. A nil clock or publisher falls
// back to the system clock and the no-op publisher.
func NewServices(db *gorm.DB, clk clock.Clock, publisher events.Publisher) *Services {
	transactions := services.NewTransactionService(db, clk, publisher)
	budgets := services.NewBudgetService(db, transactions, clk)
	return &Services{
		Transactions: transactions,
		Categories:   services.NewCategoryService(db, publisher),
		Budgets:      budgets,
		Insights:     services.NewInsightService(transactions, budgets),
		Audit:        services.NewAuditService(db),
	}
}

// Options holds the optional collaborators of the router.
type Options struct {
	// DB is pinged by the health check when set.
	DB *gorm.DB
	// Classifier backs POST /transactions/classify; nil answers 503.
	Classifier classifier.Classifier
	// Assistant backs POST /assistant/chat; nil answers 503.
	Assistant   handlers.Asker
	CORSOrigins []string
}

// NewRouter builds the HTTP API.
func NewRouter(svc *Services, opts Options) *gin.Engine {
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit, opts.Classifier)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Insights)
	assistantHandler := handlers.NewAssistantHandler(opts.Assistant)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigins...))
	router.NoRoute(middleware.NoRoute)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", health(opts.DB))

	v1 := router.Group("/api/v1")

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/all", transactionHandler.GetAllTransactions)
	transactions.GET("/period", transactionHandler.GetTransactionsForPeriod)
	transactions.GET("/summary", transactionHandler.GetSummary)
	transactions.GET("/upcoming", transactionHandler.GetUpcomingPayments)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.POST("/classify", transactionHandler.ClassifyTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:name/usage", categoryHandler.GetCategoryUsage)
	categories.PUT("/:name", categoryHandler.RenameCategory)
	categories.DELETE("/:name", categoryHandler.DeleteCategory)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/all", budgetHandler.ListBudgets)
	budgets.GET("/active", budgetHandler.ListActiveBudgets)
	budgets.GET("/overview", budgetHandler.GetBudgetsOverview)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	analytics := v1.Group("/analytics")
	analytics.GET("/monthly-totals", analyticsHandler.GetMonthlyTotals)
	analytics.GET("/income-vs-expenses", analyticsHandler.GetIncomeVsExpenses)
	analytics.GET("/category-trends", analyticsHandler.GetCategoryTrends)
	analytics.GET("/daily-spending", analyticsHandler.GetDailySpending)
	analytics.GET("/top-categories", analyticsHandler.GetTopCategories)
	analytics.GET("/month-over-month", analyticsHandler.GetMonthOverMonth)
	analytics.GET("/averages", analyticsHandler.GetAverages)
	analytics.GET("/weekly-pattern", analyticsHandler.GetWeeklyPattern)
	analytics.GET("/seasonal-pattern", analyticsHandler.GetSeasonalPattern)
	analytics.GET("/correlations", analyticsHandler.GetCorrelations)
	analytics.GET("/forecast", analyticsHandler.GetForecast)
	analytics.GET("/insights", analyticsHandler.GetInsights)
	analytics.GET("/prediction", analyticsHandler.GetPrediction)
	analytics.GET("/dashboard", analyticsHandler.GetDashboard)

	v1.POST("/assistant/chat", assistantHandler.Chat)

	return router
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				logger.Get().Warnw("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
