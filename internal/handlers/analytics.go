package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/pocket-ledger/backend/internal/analytics"
	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/repository"
)

const (
	monthLayout       = "2006-01"
	defaultTrendRange = 6
	maxTrendRange     = 24
	defaultTopLimit   = 10
	maxTopLimit       = 100
)

type AnalyticsHandler struct {
	Transactions *repository.TransactionRepository
	Detect       analytics.DetectOptions
}

// NewAnalyticsHandler создает обработчик аналитики.
func NewAnalyticsHandler(transactions *repository.TransactionRepository, detect analytics.DetectOptions) *AnalyticsHandler {
	return &AnalyticsHandler{Transactions: transactions, Detect: detect}
}

type TrendsResponse struct {
	Months int                       `json:"months"`
	Trends []analytics.SpendingTrend `json:"trends"`
}

type BreakdownResponse struct {
	Type       models.TransactionType       `json:"type"`
	Categories []analytics.CategorySpending `json:"categories"`
}

type DayOfWeekResponse struct {
	Days []analytics.DayOfWeekSpending `json:"days"`
}

type HourlyResponse struct {
	Hours []analytics.HourlySpending `json:"hours"`
}

type TopExpensesResponse struct {
	Limit    int                       `json:"limit"`
	Expenses []analytics.RankedExpense `json:"expenses"`
}

type CategoryTrendsResponse struct {
	Months int                       `json:"months"`
	Trends []analytics.CategoryTrend `json:"trends"`
}

type PatternsResponse struct {
	Patterns []analytics.DetectedPattern `json:"patterns"`
}

// Trends возвращает помесячную динамику доходов и расходов.
func (h *AnalyticsHandler) Trends(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	months, err := parseMonthsParam(c.QueryParam("months"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	txns, err := h.Transactions.List(c.Request().Context(), userID, repository.TransactionFilter{From: &windowStart})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, TrendsResponse{
		Months: months,
		Trends: analytics.MonthlyTrends(txns, months, now),
	})
}

// Breakdown возвращает распределение операций по категориям.
func (h *AnalyticsHandler) Breakdown(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	txType := models.TransactionTypeExpense
	if value := c.QueryParam("type"); value != "" {
		parsed, err := parseTransactionType(value)
		if err != nil {
			return badRequest(c, err.Error())
		}
		txType = parsed
	}

	filter, err := parseRangeFilter(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, BreakdownResponse{
		Type:       txType,
		Categories: analytics.CategoryBreakdown(txns, txType),
	})
}

// DayOfWeek возвращает распределение расходов по дням недели.
func (h *AnalyticsHandler) DayOfWeek(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	filter, err := parseRangeFilter(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, DayOfWeekResponse{Days: analytics.SpendingByDayOfWeek(txns)})
}

// Hourly возвращает распределение расходов по часам суток.
func (h *AnalyticsHandler) Hourly(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	filter, err := parseRangeFilter(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, HourlyResponse{Hours: analytics.SpendingByHour(txns)})
}

// TopExpenses возвращает крупнейшие расходы за период.
func (h *AnalyticsHandler) TopExpenses(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	limit := defaultTopLimit
	if value := c.QueryParam("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return badRequest(c, "limit must be a positive integer")
		}
		limit = parsed
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	filter, err := parseRangeFilter(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	var from, to time.Time
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}

	return c.JSON(http.StatusOK, TopExpensesResponse{
		Limit:    limit,
		Expenses: analytics.TopExpenses(txns, limit, from, to),
	})
}

// Compare сравнивает итоги двух календарных месяцев. Без параметров
// сравнивает прошлый месяц с текущим.
func (h *AnalyticsHandler) Compare(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	now := time.Now()
	monthB := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthA := monthB.AddDate(0, -1, 0)

	if value := c.QueryParam("month_a"); value != "" {
		parsed, err := time.Parse(monthLayout, value)
		if err != nil {
			return badRequest(c, "invalid month_a, expected YYYY-MM")
		}
		monthA = parsed
	}
	if value := c.QueryParam("month_b"); value != "" {
		parsed, err := time.Parse(monthLayout, value)
		if err != nil {
			return badRequest(c, "invalid month_b, expected YYYY-MM")
		}
		monthB = parsed
	}

	earliest, latest := monthA, monthB
	if latest.Before(earliest) {
		earliest, latest = latest, earliest
	}

	txns, err := h.Transactions.ListInRange(c.Request().Context(), userID, earliest, latest.AddDate(0, 1, 0))
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, analytics.CompareMonths(txns, monthA, monthB))
}

// CategoryTrends возвращает изменение расходов по категориям месяц к месяцу.
func (h *AnalyticsHandler) CategoryTrends(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	months, err := parseMonthsParam(c.QueryParam("months"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	txns, err := h.Transactions.List(c.Request().Context(), userID, repository.TransactionFilter{From: &windowStart})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, CategoryTrendsResponse{
		Months: months,
		Trends: analytics.CategoryTrends(txns, months, now),
	})
}

// RecurringPatterns возвращает найденные повторяющиеся списания.
func (h *AnalyticsHandler) RecurringPatterns(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, repository.TransactionFilter{})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, PatternsResponse{
		Patterns: analytics.DetectRecurringPatterns(txns, h.Detect),
	})
}

func parseMonthsParam(raw string) (int, error) {
	if raw == "" {
		return defaultTrendRange, nil
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, errors.New("invalid months")
	}
	if parsed > maxTrendRange {
		parsed = maxTrendRange
	}

	return parsed, nil
}

// parseRangeFilter разбирает границы периода. Дата без времени в to
// расширяется до конца дня, чтобы фильтр включал весь день.
func parseRangeFilter(fromParam, toParam string) (repository.TransactionFilter, error) {
	filter := repository.TransactionFilter{}

	if fromParam != "" {
		from, _, err := parseDateTime(fromParam)
		if err != nil {
			return filter, errors.New("invalid from date")
		}
		filter.From = &from
	}

	if toParam != "" {
		to, dateOnly, err := parseDateTime(toParam)
		if err != nil {
			return filter, errors.New("invalid to date")
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.To = &to
	}

	return filter, nil
}
