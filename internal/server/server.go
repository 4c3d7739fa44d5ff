package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/pocket-ledger/backend/internal/analytics"
	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/config"
	"example.com/pocket-ledger/backend/internal/handlers"
	"example.com/pocket-ledger/backend/internal/notifications"
	"example.com/pocket-ledger/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
// Возвращаемый хаб уведомлений закрывается при остановке сервера.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) (*echo.Echo, *notifications.Hub) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	keywordRepo := repository.NewKeywordRepository(db)
	notificationHub := notifications.NewHub()

	detect := analytics.DetectOptions{
		MinOccurrences: cfg.Ledger.RecurringMinOccurrences,
		MinConfidence:  cfg.Ledger.RecurringMinConfidence,
	}

	authHandler := handlers.NewAuthHandler(userRepo, tokenRepo, categoryRepo, tokenManager, cfg.Ledger.DefaultCurrency)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, categoryRepo, budgetRepo, userRepo, notificationHub)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	budgetHandler := handlers.NewBudgetHandler(budgetRepo, categoryRepo, transactionRepo)
	recurringHandler := handlers.NewRecurringHandler(recurringRepo, categoryRepo, userRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(transactionRepo, detect)
	parseHandler := handlers.NewParseHandler(transactionRepo, categoryRepo, budgetRepo, keywordRepo, userRepo, notificationHub)
	insightsHandler := handlers.NewInsightsHandler(transactionRepo, categoryRepo, budgetRepo, detect)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)
	healthHandler := handlers.NewHealthHandler(db)

	registerRoutes(
		e,
		healthHandler,
		authHandler,
		transactionHandler,
		categoryHandler,
		budgetHandler,
		recurringHandler,
		analyticsHandler,
		parseHandler,
		insightsHandler,
		notificationHandler,
		auth.Middleware(tokenManager),
		authRateLimiter(cfg.Auth),
		parseRateLimiter(cfg.Parse),
	)

	return e, notificationHub
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func authRateLimiter(cfg config.AuthConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}

// parseRateLimiter ограничивает разбор текста и чеков: это самые тяжелые
// запросы, и клиенты шлют их сериями при дооформлении черновика.
func parseRateLimiter(cfg config.ParseConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
