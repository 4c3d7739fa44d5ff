package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
	"example.com/pocket-ledger/backend/internal/notifications"
	"example.com/pocket-ledger/backend/internal/repository"
	"example.com/pocket-ledger/backend/internal/textparse"
)

type ParseHandler struct {
	Transactions *repository.TransactionRepository
	Categories   *repository.CategoryRepository
	Budgets      *repository.BudgetRepository
	Keywords     *repository.KeywordRepository
	Users        *repository.UserRepository
	Notifier     *notifications.Hub
}

// NewParseHandler создает обработчик разбора свободного текста и чеков.
func NewParseHandler(
	transactions *repository.TransactionRepository,
	categories *repository.CategoryRepository,
	budgets *repository.BudgetRepository,
	keywords *repository.KeywordRepository,
	users *repository.UserRepository,
	notifier *notifications.Hub,
) *ParseHandler {
	return &ParseHandler{
		Transactions: transactions,
		Categories:   categories,
		Budgets:      budgets,
		Keywords:     keywords,
		Users:        users,
		Notifier:     notifier,
	}
}

type ParseRequest struct {
	Text string `json:"text" validate:"required,max=500"`
	Save bool   `json:"save"`
}

type ParseDraft struct {
	Amount       decimal.Decimal        `json:"amount"`
	Type         models.TransactionType `json:"type"`
	Date         string                 `json:"date"`
	CategoryHint string                 `json:"category_hint,omitempty"`
	CategoryID   *uuid.UUID             `json:"category_id,omitempty"`
	Currency     string                 `json:"currency"`
	Note         string                 `json:"note"`
}

type ParseResponse struct {
	Draft       ParseDraft           `json:"draft"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// Parse превращает текст вида "어제 스타벅스 5천원" в черновик операции.
// С флагом save черновик сразу сохраняется как операция.
func (h *ParseHandler) Parse(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	learner, err := h.learner(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	draft := textparse.Parse(req.Text, time.Now())
	if !draft.Valid() {
		return badRequest(c, "no amount found in text")
	}

	// Выученные пользователем ключи приоритетнее встроенной таблицы.
	if tag, ok := textparse.ResolveCategory(req.Text, learner); ok {
		draft.CategoryHint = tag
	}

	var categoryID *uuid.UUID
	if draft.CategoryHint != "" {
		category, err := h.Categories.FindByName(ctx, userID, draft.CategoryHint)
		switch {
		case err == nil:
			categoryID = &category.ID
		case !errors.Is(err, repository.ErrNotFound):
			return serverError(c)
		}
	}

	resp := ParseResponse{
		Draft: ParseDraft{
			Amount:       draft.Amount,
			Type:         draft.Type,
			Date:         draft.Date.Format(dateLayout),
			CategoryHint: draft.CategoryHint,
			CategoryID:   categoryID,
			Currency:     user.Currency,
			Note:         draft.Note,
		},
	}

	if !req.Save {
		return c.JSON(http.StatusOK, resp)
	}

	tx, err := h.Transactions.Create(ctx, userID, repository.TransactionInput{
		Amount:     draft.Amount,
		Type:       draft.Type,
		CategoryID: categoryID,
		Date:       draft.Date,
		Note:       draft.Note,
		Currency:   user.Currency,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "category not found")
		}

		return serverError(c)
	}

	publishTransactionCreated(h.Notifier, userID, tx)

	if tx.Type == models.TransactionTypeExpense {
		notifyOffTrackBudgets(ctx, h.Budgets, h.Transactions, h.Notifier, userID)
	}

	txResp := toTransactionResponse(tx)
	resp.Transaction = &txResp

	return c.JSON(http.StatusCreated, resp)
}

type ReceiptRequest struct {
	Lines []ReceiptLineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

type ReceiptLineRequest struct {
	Text       string  `json:"text" validate:"required,max=500"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

type ReceiptResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Found  bool            `json:"found"`
}

// Receipt извлекает итоговую сумму из строк распознанного чека.
// Отсутствие суммы не ошибка: клиент предложит ввести ее вручную.
func (h *ParseHandler) Receipt(c echo.Context) error {
	if _, ok := auth.UserIDFromContext(c); !ok {
		return unauthorized(c)
	}

	var req ReceiptRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	lines := make([]textparse.ReceiptLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, textparse.ReceiptLine{Text: line.Text, Confidence: line.Confidence})
	}

	amount, found := textparse.ExtractReceiptAmount(lines)

	return c.JSON(http.StatusOK, ReceiptResponse{Amount: amount, Found: found})
}

type KeywordRequest struct {
	Keyword  string `json:"keyword" validate:"required,max=100"`
	Category string `json:"category" validate:"required,max=100"`
}

type KeywordResponse struct {
	Keyword   string    `json:"keyword"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *ParseHandler) ListKeywords(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	entries, err := h.Keywords.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	items := make([]KeywordResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toKeywordResponse(entry))
	}

	return c.JSON(http.StatusOK, map[string][]KeywordResponse{"keywords": items})
}

// LearnKeyword запоминает связку ключевого слова с категорией. Категория
// не обязана существовать: подсказка сверяется с категориями при разборе.
func (h *ParseHandler) LearnKeyword(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req KeywordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	category := strings.TrimSpace(req.Category)
	if keyword == "" || category == "" {
		return badRequest(c, "keyword and category must not be blank")
	}

	entry, err := h.Keywords.Upsert(c.Request().Context(), userID, keyword, category)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, toKeywordResponse(entry))
}

func (h *ParseHandler) ForgetKeyword(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	keyword := strings.ToLower(strings.TrimSpace(c.Param("keyword")))
	if keyword == "" {
		return badRequest(c, "keyword is required")
	}

	err := h.Keywords.Delete(c.Request().Context(), userID, keyword)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "keyword not found")
		}

		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// learner собирает выученные ключи пользователя в матчер для разбора.
func (h *ParseHandler) learner(ctx context.Context, userID uuid.UUID) (*textparse.Learner, error) {
	entries, err := h.Keywords.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	learner := textparse.NewLearner()
	for _, entry := range entries {
		learner.Learn(entry.Keyword, entry.Category)
	}

	return learner, nil
}

func toKeywordResponse(entry models.ParseKeyword) KeywordResponse {
	return KeywordResponse{
		Keyword:   entry.Keyword,
		Category:  entry.Category,
		CreatedAt: entry.CreatedAt,
	}
}
