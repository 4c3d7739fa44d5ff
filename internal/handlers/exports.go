package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/pocket-ledger/backend/internal/auth"
	"example.com/pocket-ledger/backend/internal/models"
)

const (
	exportFormatCSV  = "csv"
	exportFormatJSON = "json"
)

// Export выгружает операции пользователя файлом. Формат задается параметром
// format (по умолчанию csv), фильтры те же, что у списка операций.
func (h *TransactionHandler) Export(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format == "" {
		format = exportFormatCSV
	}

	txns, err := h.Transactions.List(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	stamp := time.Now().Format("20060102")

	switch format {
	case exportFormatJSON:
		response := make([]TransactionResponse, 0, len(txns))
		for _, tx := range txns {
			response = append(response, toTransactionResponse(tx))
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions-`+stamp+`.json"`)
		return c.JSON(http.StatusOK, map[string][]TransactionResponse{"transactions": response})

	case exportFormatCSV:
		names, err := h.categoryNames(c.Request().Context(), userID)
		if err != nil {
			return serverError(c)
		}

		data, err := writeTransactionsCSV(txns, names)
		if err != nil {
			return serverError(c)
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions-`+stamp+`.csv"`)
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)

	default:
		return badRequest(c, "format must be csv or json")
	}
}

func (h *TransactionHandler) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	categories, err := h.Categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	return names, nil
}

func writeTransactionsCSV(txns []models.Transaction, categoryNames map[uuid.UUID]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "date", "type", "amount", "currency", "category", "note", "created_at"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, tx := range txns {
		category := ""
		if tx.CategoryID != nil {
			category = categoryNames[*tx.CategoryID]
		}

		record := []string{
			tx.ID.String(),
			tx.Date.Format(time.RFC3339),
			string(tx.Type),
			tx.Amount.String(),
			tx.Currency,
			category,
			tx.Note,
			tx.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
