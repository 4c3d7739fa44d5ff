package server

import (
	"github.com/labstack/echo/v4"

	"example.com/pocket-ledger/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	transactionHandler *handlers.TransactionHandler,
	categoryHandler *handlers.CategoryHandler,
	budgetHandler *handlers.BudgetHandler,
	recurringHandler *handlers.RecurringHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	parseHandler *handlers.ParseHandler,
	insightsHandler *handlers.InsightsHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	parseRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Live)
	e.GET("/ready", healthHandler.Ready)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)
	authGroup.PATCH("/me/settings", authHandler.UpdateSettings, authMiddleware)

	transactions := api.Group("/transactions", authMiddleware)
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("/export", transactionHandler.Export)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	categories := api.Group("/categories", authMiddleware)
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	budgets := api.Group("/budgets", authMiddleware)
	budgets.GET("", budgetHandler.List)
	budgets.POST("", budgetHandler.Create)
	budgets.GET("/:id", budgetHandler.Get)
	budgets.GET("/:id/prediction", budgetHandler.Prediction)
	budgets.PUT("/:id", budgetHandler.Update)
	budgets.DELETE("/:id", budgetHandler.Delete)

	recurring := api.Group("/recurring", authMiddleware)
	recurring.GET("", recurringHandler.List)
	recurring.GET("/upcoming", recurringHandler.Upcoming)
	recurring.POST("", recurringHandler.Create)
	recurring.GET("/:id", recurringHandler.Get)
	recurring.PUT("/:id", recurringHandler.Update)
	recurring.DELETE("/:id", recurringHandler.Delete)

	analytics := api.Group("/analytics", authMiddleware)
	analytics.GET("/trends", analyticsHandler.Trends)
	analytics.GET("/categories", analyticsHandler.Breakdown)
	analytics.GET("/day-of-week", analyticsHandler.DayOfWeek)
	analytics.GET("/hourly", analyticsHandler.Hourly)
	analytics.GET("/top-expenses", analyticsHandler.TopExpenses)
	analytics.GET("/compare", analyticsHandler.Compare)
	analytics.GET("/category-trends", analyticsHandler.CategoryTrends)
	analytics.GET("/recurring-patterns", analyticsHandler.RecurringPatterns)

	parse := api.Group("/parse", authMiddleware)
	parse.POST("", parseHandler.Parse, parseRateLimiter)
	parse.POST("/receipt", parseHandler.Receipt, parseRateLimiter)
	parse.GET("/keywords", parseHandler.ListKeywords)
	parse.POST("/keywords", parseHandler.LearnKeyword)
	parse.DELETE("/keywords/:keyword", parseHandler.ForgetKeyword)

	api.GET("/insights", insightsHandler.List, authMiddleware)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)
}
