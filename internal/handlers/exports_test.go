package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

// TestWriteTransactionsCSV проверяет формат CSV-выгрузки операций.
func TestWriteTransactionsCSV(t *testing.T) {
	cat := uuid.New()
	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	txns := []models.Transaction{
		{
			ID:         uuid.New(),
			Amount:     decimal.RequireFromString("4500"),
			Type:       models.TransactionTypeExpense,
			CategoryID: &cat,
			Date:       time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
			Note:       "커피",
			Currency:   "KRW",
			CreatedAt:  created,
		},
		{
			ID:        uuid.New(),
			Amount:    decimal.RequireFromString("100.5"),
			Type:      models.TransactionTypeIncome,
			Date:      time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			Currency:  "USD",
			CreatedAt: created,
		},
	}

	data, err := writeTransactionsCSV(txns, map[uuid.UUID]string{cat: "Food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 records, got %d lines", len(lines))
	}
	if lines[0] != "id,date,type,amount,currency,category,note,created_at" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "expense,4500,KRW,Food,커피") {
		t.Fatalf("unexpected expense record: %s", lines[1])
	}
	if !strings.Contains(lines[2], "income,100.5,USD,,,") {
		t.Fatalf("unexpected income record: %s", lines[2])
	}
}

// TestWriteTransactionsCSVEmpty проверяет выгрузку без операций.
func TestWriteTransactionsCSVEmpty(t *testing.T) {
	data, err := writeTransactionsCSV(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.TrimSpace(string(data)) != "id,date,type,amount,currency,category,note,created_at" {
		t.Fatalf("expected only the header, got %q", string(data))
	}
}
