package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/analytics"
	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/notifications"
	"example.com/pocket-ledger/backend/internal/repository"
)

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	Transactions *repository.TransactionRepository
	Categories   *repository.CategoryRepository
	Budgets      *repository.BudgetRepository
	Users        *repository.UserRepository
	Notifier     *notifications.Hub
}

// NewTransactionHandler создает обработчик операций.
func NewTransactionHandler(
	transactions *repository.TransactionRepository,
	categories *repository.CategoryRepository,
	budgets *repository.BudgetRepository,
	users *repository.UserRepository,
	notifier *notifications.Hub,
) *TransactionHandler {
	return &TransactionHandler{
		Transactions: transactions,
		Categories:   categories,
		Budgets:      budgets,
		Users:        users,
		Notifier:     notifier,
	}
}

type TransactionRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" validate:"required,oneof=income expense"`
	CategoryID *uuid.UUID      `json:"category_id"`
	Date       string          `json:"date" validate:"required"`
	Note       string          `json:"note" validate:"max=500"`
	Currency   *string         `json:"currency" validate:"omitempty,len=3,alpha"`
}

type TransactionResponse struct {
	ID         uuid.UUID              `json:"id"`
	Amount     decimal.Decimal        `json:"amount"`
	Type       models.TransactionType `json:"type"`
	CategoryID *uuid.UUID             `json:"category_id,omitempty"`
	Date       time.Time              `json:"date"`
	Note       string                 `json:"note,omitempty"`
	Currency   string                 `json:"currency"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// List возвращает операции пользователя с фильтрами по периоду, типу и категории.
func (h *TransactionHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	response := make([]TransactionResponse, 0, len(txns))
	for _, tx := range txns {
		response = append(response, toTransactionResponse(tx))
	}

	return c.JSON(http.StatusOK, map[string][]TransactionResponse{"transactions": response})
}

// Create создает операцию и уведомляет подписчиков.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := h.buildInput(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := h.Transactions.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}
		return serverError(c)
	}

	publishTransactionCreated(h.Notifier, userID, tx)
	if tx.Type == models.TransactionTypeExpense {
		notifyOffTrackBudgets(c.Request().Context(), h.Budgets, h.Transactions, h.Notifier, userID)
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// Get возвращает операцию по идентификатору.
func (h *TransactionHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	tx, err := h.Transactions.GetByID(c.Request().Context(), userID, txID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// Update обновляет операцию.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	input, err := h.buildInput(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	tx, err := h.Transactions.Update(c.Request().Context(), userID, txID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}
		return serverError(c)
	}

	notifyOffTrackBudgets(c.Request().Context(), h.Budgets, h.Transactions, h.Notifier, userID)
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// Delete удаляет операцию.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	if err := h.Transactions.Delete(c.Request().Context(), userID, txID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// buildInput разбирает и проверяет тело запроса на создание или обновление.
func (h *TransactionHandler) buildInput(c echo.Context, userID uuid.UUID) (repository.TransactionInput, error) {
	var input repository.TransactionInput

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return input, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return input, err
	}

	if !req.Amount.IsPositive() {
		return input, errors.New("amount must be positive")
	}

	txType, err := parseTransactionType(req.Type)
	if err != nil {
		return input, err
	}

	date, _, err := parseDateTime(req.Date)
	if err != nil {
		return input, errors.New("invalid date format")
	}

	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(c.Request().Context(), userID, *req.CategoryID); err != nil {
			return input, errors.New("category not found")
		}
	}

	currency, err := h.resolveCurrency(c, userID, req.Currency)
	if err != nil {
		return input, err
	}

	input = repository.TransactionInput{
		Amount:     req.Amount,
		Type:       txType,
		CategoryID: req.CategoryID,
		Date:       date,
		Note:       strings.TrimSpace(req.Note),
		Currency:   currency,
	}
	return input, nil
}

// resolveCurrency берет валюту из запроса, иначе валюту пользователя.
func (h *TransactionHandler) resolveCurrency(c echo.Context, userID uuid.UUID, requested *string) (string, error) {
	if requested != nil {
		return strings.ToUpper(strings.TrimSpace(*requested)), nil
	}

	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return "", errors.New("user not found")
	}

	return user.Currency, nil
}

// notifyOffTrackBudgets пересчитывает прогнозы бюджетов и рассылает события
// о прогнозируемом перерасходе. Лучшая попытка: ошибки не прерывают запрос.
func notifyOffTrackBudgets(
	ctx context.Context,
	budgets *repository.BudgetRepository,
	transactions *repository.TransactionRepository,
	hub *notifications.Hub,
	userID uuid.UUID,
) {
	list, err := budgets.List(ctx, userID)
	if err != nil || len(list) == 0 {
		return
	}

	txns, err := transactions.List(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return
	}

	now := time.Now()
	for _, budget := range list {
		prediction := analytics.PredictBudget(budget, txns, now)
		if !prediction.OnTrack && prediction.PredictedOver.IsPositive() {
			publishBudgetOffTrack(hub, userID, prediction)
		}
	}
}

func toTransactionResponse(tx models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         tx.ID,
		Amount:     tx.Amount,
		Type:       tx.Type,
		CategoryID: tx.CategoryID,
		Date:       tx.Date,
		Note:       tx.Note,
		Currency:   tx.Currency,
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

// parseTransactionFilter собирает фильтр списка из query-параметров.
func parseTransactionFilter(c echo.Context) (repository.TransactionFilter, error) {
	filter, err := parseRangeFilter(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return filter, err
	}

	if value := c.QueryParam("type"); value != "" {
		txType, err := parseTransactionType(value)
		if err != nil {
			return filter, err
		}
		filter.Type = &txType
	}

	if value := c.QueryParam("category_id"); value != "" {
		categoryID, err := uuid.Parse(value)
		if err != nil {
			return filter, errors.New("invalid category id")
		}
		filter.CategoryID = &categoryID
	}

	if value := c.QueryParam("limit"); value != "" {
		limit, err := strconv.Atoi(value)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func parseTransactionType(value string) (models.TransactionType, error) {
	switch models.TransactionType(strings.ToLower(strings.TrimSpace(value))) {
	case models.TransactionTypeIncome:
		return models.TransactionTypeIncome, nil
	case models.TransactionTypeExpense:
		return models.TransactionTypeExpense, nil
	default:
		return "", errors.New("type must be income or expense")
	}
}

// parseDateTime принимает дату с временем (RFC 3339) или без него.
// Второй результат сообщает, что время в значении отсутствовало.
func parseDateTime(value string) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(dateLayout, trimmed); err == nil {
		return t, true, nil
	}

	return time.Time{}, false, errors.New("invalid date format")
}
