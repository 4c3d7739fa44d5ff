package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

func recurringExpense(cat uuid.UUID, amount string, date time.Time, note string) models.Transaction {
	tx := withCategory(expense(amount, date), cat)
	tx.Note = note
	return tx
}

// TestDetectRecurringMonthly проверяет распознавание месячной подписки.
func TestDetectRecurringMonthly(t *testing.T) {
	cat := uuid.New()
	start := time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC)

	txns := make([]models.Transaction, 0, 4)
	for i := 0; i < 4; i++ {
		txns = append(txns, recurringExpense(cat, "9.99", start.AddDate(0, 0, i*30), "Netflix"))
	}

	patterns := DetectRecurringPatterns(txns, DetectOptions{})
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}

	p := patterns[0]
	if p.Frequency != models.FrequencyMonthly {
		t.Fatalf("expected monthly, got %s", p.Frequency)
	}
	if p.Occurrences != 4 {
		t.Fatalf("expected 4 occurrences, got %d", p.Occurrences)
	}
	if !p.AverageAmount.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("unexpected average: %s", p.AverageAmount)
	}
	if p.Confidence != 1 {
		t.Fatalf("expected full confidence, got %v", p.Confidence)
	}
	if p.Note != "Netflix" {
		t.Fatalf("unexpected note: %s", p.Note)
	}

	expectedNext := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)
	if !p.NextExpected.Equal(expectedNext) {
		t.Fatalf("expected next occurrence %s, got %s", expectedNext, p.NextExpected)
	}
}

// TestDetectRecurringWeekly проверяет распознавание недельного ритма
// с полной уверенностью при ровных интервалах.
func TestDetectRecurringWeekly(t *testing.T) {
	cat := uuid.New()
	start := time.Date(2026, time.February, 2, 8, 0, 0, 0, time.UTC)

	txns := make([]models.Transaction, 0, 5)
	for i := 0; i < 5; i++ {
		txns = append(txns, recurringExpense(cat, "12000", start.AddDate(0, 0, i*7), "레슨"))
	}

	patterns := DetectRecurringPatterns(txns, DetectOptions{})
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
	if patterns[0].Frequency != models.FrequencyWeekly {
		t.Fatalf("expected weekly, got %s", patterns[0].Frequency)
	}
	if patterns[0].Confidence != 1 {
		t.Fatalf("expected full confidence, got %v", patterns[0].Confidence)
	}
}

// TestDetectSplitsAmountClusters проверяет разделение разных сумм в одной
// категории на отдельные паттерны.
func TestDetectSplitsAmountClusters(t *testing.T) {
	cat := uuid.New()
	low := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	high := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	txns := []models.Transaction{}
	for i := 0; i < 3; i++ {
		txns = append(txns, recurringExpense(cat, "10", low.AddDate(0, 0, i*30), "gym"))
		txns = append(txns, recurringExpense(cat, "100", high.AddDate(0, 0, i*30), "insurance"))
	}

	patterns := DetectRecurringPatterns(txns, DetectOptions{})
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
}

// TestDetectToleranceBand проверяет границы кластера в 15% от первой суммы.
func TestDetectToleranceBand(t *testing.T) {
	cat := uuid.New()
	start := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	txns := []models.Transaction{
		recurringExpense(cat, "100", start, ""),
		recurringExpense(cat, "115", start.AddDate(0, 0, 30), "plan"),
		recurringExpense(cat, "85", start.AddDate(0, 0, 60), "plan b"),
	}

	patterns := DetectRecurringPatterns(txns, DetectOptions{})
	if len(patterns) != 1 {
		t.Fatalf("expected a single cluster, got %d patterns", len(patterns))
	}
	if !patterns[0].AverageAmount.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected average: %s", patterns[0].AverageAmount)
	}
	if patterns[0].Note != "plan" {
		t.Fatalf("expected the first non-empty note, got %q", patterns[0].Note)
	}
}

// TestDetectSkipsSparseAndIrregular проверяет отбраковку редких и
// нерегулярных серий.
func TestDetectSkipsSparseAndIrregular(t *testing.T) {
	cat := uuid.New()
	start := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	sparse := []models.Transaction{
		recurringExpense(cat, "20", start, "rare"),
		recurringExpense(cat, "20", start.AddDate(0, 0, 30), "rare"),
	}
	if got := DetectRecurringPatterns(sparse, DetectOptions{}); len(got) != 0 {
		t.Fatalf("expected no patterns for 2 occurrences, got %d", len(got))
	}

	irregular := []models.Transaction{
		recurringExpense(cat, "20", start, "chaos"),
		recurringExpense(cat, "20", start.AddDate(0, 0, 3), "chaos"),
		recurringExpense(cat, "20", start.AddDate(0, 0, 80), "chaos"),
	}
	if got := DetectRecurringPatterns(irregular, DetectOptions{}); len(got) != 0 {
		t.Fatalf("expected no patterns for irregular gaps, got %d", len(got))
	}

	steady := make([]models.Transaction, 0, 4)
	for i := 0; i < 4; i++ {
		steady = append(steady, recurringExpense(cat, "20", start.AddDate(0, 0, i*30), "rent"))
	}
	if got := DetectRecurringPatterns(steady, DetectOptions{MinOccurrences: 5}); len(got) != 0 {
		t.Fatalf("expected no patterns below the occurrence gate, got %d", len(got))
	}
}

// TestDetectIgnoresUncategorized проверяет пропуск операций без категории.
func TestDetectIgnoresUncategorized(t *testing.T) {
	start := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

	txns := make([]models.Transaction, 0, 4)
	for i := 0; i < 4; i++ {
		txns = append(txns, expense("9.99", start.AddDate(0, 0, i*30)))
	}

	if got := DetectRecurringPatterns(txns, DetectOptions{}); len(got) != 0 {
		t.Fatalf("expected no patterns without categories, got %d", len(got))
	}
}
