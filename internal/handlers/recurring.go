package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/repository"
	"example.com/pocket-ledger/backend/internal/schedule"
)

const (
	defaultUpcomingDays = 30
	maxUpcomingDays     = 365
)

type RecurringHandler struct {
	Recurring  *repository.RecurringRepository
	Categories *repository.CategoryRepository
	Users      *repository.UserRepository
}

// NewRecurringHandler создает обработчик регулярных операций.
func NewRecurringHandler(recurring *repository.RecurringRepository, categories *repository.CategoryRepository, users *repository.UserRepository) *RecurringHandler {
	return &RecurringHandler{
		Recurring:  recurring,
		Categories: categories,
		Users:      users,
	}
}

type RecurringRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" validate:"required,oneof=income expense"`
	CategoryID *uuid.UUID      `json:"category_id"`
	Note       string          `json:"note" validate:"max=500"`
	Currency   *string         `json:"currency" validate:"omitempty,len=3,alpha"`
	Frequency  string          `json:"frequency" validate:"required,oneof=daily weekly biweekly monthly yearly"`
	StartDate  string          `json:"start_date" validate:"required"`
	EndDate    *string         `json:"end_date"`
	IsActive   *bool           `json:"is_active"`
}

type RecurringResponse struct {
	ID         uuid.UUID              `json:"id"`
	Amount     decimal.Decimal        `json:"amount"`
	Type       models.TransactionType `json:"type"`
	CategoryID *uuid.UUID             `json:"category_id,omitempty"`
	Note       string                 `json:"note,omitempty"`
	Currency   string                 `json:"currency"`
	Frequency  models.Frequency       `json:"frequency"`
	StartDate  string                 `json:"start_date"`
	EndDate    *string                `json:"end_date,omitempty"`
	IsActive   bool                   `json:"is_active"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// List возвращает регулярные операции пользователя.
func (h *RecurringHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	recs, err := h.Recurring.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]RecurringResponse, 0, len(recs))
	for _, rec := range recs {
		response = append(response, toRecurringResponse(rec))
	}

	return c.JSON(http.StatusOK, map[string][]RecurringResponse{"recurring": response})
}

// Create создает регулярную операцию.
func (h *RecurringHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := h.buildInput(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	rec, err := h.Recurring.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toRecurringResponse(rec))
}

// Get возвращает регулярную операцию по идентификатору.
func (h *RecurringHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid recurring id")
	}

	rec, err := h.Recurring.GetByID(c.Request().Context(), userID, recID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "recurring transaction not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toRecurringResponse(rec))
}

// Update обновляет регулярную операцию.
func (h *RecurringHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid recurring id")
	}

	input, err := h.buildInput(c, userID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	rec, err := h.Recurring.Update(c.Request().Context(), userID, recID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "recurring transaction not found")
		}
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toRecurringResponse(rec))
}

// Delete удаляет регулярную операцию.
func (h *RecurringHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	recID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid recurring id")
	}

	if err := h.Recurring.Delete(c.Request().Context(), userID, recID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "recurring transaction not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// Upcoming возвращает ожидаемые списания активных регулярных операций.
func (h *RecurringHandler) Upcoming(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	days := defaultUpcomingDays
	if value := c.QueryParam("days"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return badRequest(c, "days must be a positive integer")
		}
		days = parsed
	}
	if days > maxUpcomingDays {
		days = maxUpcomingDays
	}

	recs, err := h.Recurring.ListActive(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	occurrences := schedule.Upcoming(recs, time.Now(), days)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"days":        days,
		"occurrences": occurrences,
	})
}

func (h *RecurringHandler) buildInput(c echo.Context, userID uuid.UUID) (repository.RecurringInput, error) {
	var input repository.RecurringInput

	var req RecurringRequest
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

	startDate, _, err := parseDateTime(req.StartDate)
	if err != nil {
		return input, errors.New("invalid start_date format")
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, _, err := parseDateTime(*req.EndDate)
		if err != nil {
			return input, errors.New("invalid end_date format")
		}
		if parsed.Before(startDate) {
			return input, errors.New("end_date must be after start_date")
		}
		endDate = &parsed
	}

	if req.CategoryID != nil {
		if _, err := h.Categories.GetByID(c.Request().Context(), userID, *req.CategoryID); err != nil {
			return input, errors.New("category not found")
		}
	}

	var currency string
	if req.Currency != nil {
		currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	} else {
		user, err := h.Users.GetByID(c.Request().Context(), userID)
		if err != nil {
			return input, errors.New("user not found")
		}
		currency = user.Currency
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input = repository.RecurringInput{
		Amount:     req.Amount,
		Type:       txType,
		CategoryID: req.CategoryID,
		Note:       strings.TrimSpace(req.Note),
		Currency:   currency,
		Frequency:  models.Frequency(req.Frequency),
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   isActive,
	}
	return input, nil
}

func toRecurringResponse(rec models.RecurringTransaction) RecurringResponse {
	var endDate *string
	if rec.EndDate != nil {
		formatted := rec.EndDate.Format(dateLayout)
		endDate = &formatted
	}

	return RecurringResponse{
		ID:         rec.ID,
		Amount:     rec.Amount,
		Type:       rec.Type,
		CategoryID: rec.CategoryID,
		Note:       rec.Note,
		Currency:   rec.Currency,
		Frequency:  rec.Frequency,
		StartDate:  rec.StartDate.Format(dateLayout),
		EndDate:    endDate,
		IsActive:   rec.IsActive,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
