package handlers

import (
	"testing"

	"example.com/pocket-ledger/backend/internal/models"
)

// TestParseTransactionTypeValid проверяет разбор типа операции.
func TestParseTransactionTypeValid(t *testing.T) {
	value, err := parseTransactionType("expense")
	if err != nil || value != models.TransactionTypeExpense {
		t.Fatalf("expected expense, got %v (err=%v)", value, err)
	}

	value, err = parseTransactionType(" Income ")
	if err != nil || value != models.TransactionTypeIncome {
		t.Fatalf("expected income, got %v (err=%v)", value, err)
	}
}

// TestParseTransactionTypeInvalid проверяет отказ на неизвестном типе.
func TestParseTransactionTypeInvalid(t *testing.T) {
	if _, err := parseTransactionType("transfer"); err == nil {
		t.Fatal("expected error for unknown type")
	}

	if _, err := parseTransactionType(""); err == nil {
		t.Fatal("expected error for empty type")
	}
}

// TestParseDateTime проверяет разбор даты с временем и без.
func TestParseDateTime(t *testing.T) {
	parsed, dateOnly, err := parseDateTime("2024-03-05T13:45:00Z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if dateOnly {
		t.Fatal("expected timestamp, got date-only")
	}
	if parsed.Hour() != 13 || parsed.Minute() != 45 {
		t.Fatalf("unexpected time: %v", parsed)
	}

	parsed, dateOnly, err = parseDateTime("2024-03-05")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !dateOnly {
		t.Fatal("expected date-only flag")
	}
	if parsed.Format(dateLayout) != "2024-03-05" {
		t.Fatalf("unexpected date: %v", parsed)
	}

	if _, _, err := parseDateTime("05.03.2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
