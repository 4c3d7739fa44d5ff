package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/analytics"
	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/repository"
)

type BudgetHandler struct {
	Budgets      *repository.BudgetRepository
	Categories   *repository.CategoryRepository
	Transactions *repository.TransactionRepository
}

// NewBudgetHandler создает обработчик бюджетов.
func NewBudgetHandler(budgets *repository.BudgetRepository, categories *repository.CategoryRepository, transactions *repository.TransactionRepository) *BudgetHandler {
	return &BudgetHandler{
		Budgets:      budgets,
		Categories:   categories,
		Transactions: transactions,
	}
}

type BudgetRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Amount     decimal.Decimal `json:"amount"`
	Period     string          `json:"period" validate:"required,oneof=weekly monthly yearly"`
	CategoryID *uuid.UUID      `json:"category_id"`
	StartDate  string          `json:"start_date" validate:"required"`
}

type BudgetResponse struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	Period     models.BudgetPeriod `json:"period"`
	CategoryID *uuid.UUID          `json:"category_id,omitempty"`
	StartDate  string              `json:"start_date"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type BudgetPredictionResponse struct {
	analytics.BudgetPrediction
	PercentUsed float64 `json:"percent_used"`
}

// List возвращает бюджеты пользователя.
func (h *BudgetHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgets, err := h.Budgets.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]BudgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		response = append(response, toBudgetResponse(budget))
	}

	return c.JSON(http.StatusOK, map[string][]BudgetResponse{"budgets": response})
}

// Create создает бюджет.
func (h *BudgetHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := h.buildInput(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	budget, err := h.Budgets.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// Get возвращает бюджет по идентификатору.
func (h *BudgetHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid budget id")
	}

	budget, err := h.Budgets.GetByID(c.Request().Context(), userID, budgetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// Update обновляет бюджет.
func (h *BudgetHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid budget id")
	}

	input, err := h.buildInput(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	budget, err := h.Budgets.Update(c.Request().Context(), userID, budgetID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// Delete удаляет бюджет.
func (h *BudgetHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid budget id")
	}

	if err := h.Budgets.Delete(c.Request().Context(), userID, budgetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Prediction возвращает прогноз расхода бюджета на конец текущего периода.
func (h *BudgetHandler) Prediction(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid budget id")
	}

	budget, err := h.Budgets.GetByID(c.Request().Context(), userID, budgetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget not found")
		}
		return serverError(c)
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, repository.TransactionFilter{})
	if err != nil {
		return serverError(c)
	}

	prediction := analytics.PredictBudget(budget, txns, time.Now())
	return c.JSON(http.StatusOK, BudgetPredictionResponse{
		BudgetPrediction: prediction,
		PercentUsed:      prediction.PercentUsed(),
	})
}

func (h *BudgetHandler) buildInput(c echo.Context, userID uuid.UUID) (repository.BudgetInput, error) {
	var input repository.BudgetInput

	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return input, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return input, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return input, errors.New("name is required")
	}

	if !req.Amount.IsPositive() {
		return input, errors.New("amount must be positive")
	}

	startDate, _, err := parseDateTime(req.StartDate)
	if err != nil {
		return input, errors.New("invalid start_date format")
	}

	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(c.Request().Context(), userID, *req.CategoryID); err != nil {
			return input, errors.New("category not found")
		}
	}

	input = repository.BudgetInput{
		Name:       name,
		Amount:     req.Amount,
		Period:     models.BudgetPeriod(req.Period),
		CategoryID: req.CategoryID,
		StartDate:  startDate,
	}
	return input, nil
}

func toBudgetResponse(budget models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:         budget.ID,
		Name:       budget.Name,
		Amount:     budget.Amount,
		Period:     budget.Period,
		CategoryID: budget.CategoryID,
		StartDate:  budget.StartDate.Format(dateLayout),
		CreatedAt:  budget.CreatedAt,
		UpdatedAt:  budget.UpdatedAt,
	}
}
