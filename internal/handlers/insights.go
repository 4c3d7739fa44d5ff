package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/pocket-ledger/backend/internal/analytics"
	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/insights"
	"example.com/pocket-ledger/backend/internal/repository"
)

// insightMonths задает глубину истории для правил ленты подсказок.
const insightMonths = 6

type InsightsHandler struct {
	Transactions *repository.TransactionRepository
	Categories   *repository.CategoryRepository
	Budgets      *repository.BudgetRepository
	Detect       analytics.DetectOptions
}

// NewInsightsHandler создает обработчик ленты подсказок.
func NewInsightsHandler(
	transactions *repository.TransactionRepository,
	categories *repository.CategoryRepository,
	budgets *repository.BudgetRepository,
	detect analytics.DetectOptions,
) *InsightsHandler {
	return &InsightsHandler{
		Transactions: transactions,
		Categories:   categories,
		Budgets:      budgets,
		Detect:       detect,
	}
}

type InsightsResponse struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Insights    []insights.Insight `json:"insights"`
}

// List собирает ленту подсказок из аналитики за последние месяцы.
func (h *InsightsHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	now := time.Now()

	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(insightMonths - 1), 0)

	txns, err := h.Transactions.List(ctx, userID, repository.TransactionFilter{From: &windowStart})
	if err != nil {
		return serverError(c)
	}

	budgets, err := h.Budgets.List(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	categories, err := h.Categories.List(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	budgetNames := make(map[uuid.UUID]string, len(budgets))
	predictions := make([]analytics.BudgetPrediction, 0, len(budgets))
	for _, budget := range budgets {
		budgetNames[budget.ID] = budget.Name
		predictions = append(predictions, analytics.PredictBudget(budget, txns, now))
	}

	in := insights.Input{
		Trends:         analytics.MonthlyTrends(txns, insightMonths, now),
		CategoryTrends: analytics.CategoryTrends(txns, insightMonths, now),
		Predictions:    predictions,
		Patterns:       analytics.DetectRecurringPatterns(txns, h.Detect),
		CategoryNames:  categoryNames,
		BudgetNames:    budgetNames,
	}

	return c.JSON(http.StatusOK, InsightsResponse{
		GeneratedAt: now,
		Insights:    insights.Build(in),
	})
}
