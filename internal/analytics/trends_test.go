package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

// TestCompareMonths проверяет сравнение двух месяцев по расходам.
func TestCompareMonths(t *testing.T) {
	monthA := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	monthB := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	txns := []models.Transaction{
		expense("100", time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)),
		income("50", time.Date(2026, time.January, 12, 12, 0, 0, 0, time.UTC)),
		expense("250", time.Date(2026, time.February, 3, 12, 0, 0, 0, time.UTC)),
		expense("9", time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)),
	}

	cmp := CompareMonths(txns, monthA, monthB)
	if !cmp.ExpenseA.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected expense A: %s", cmp.ExpenseA)
	}
	if !cmp.IncomeA.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("unexpected income A: %s", cmp.IncomeA)
	}
	if !cmp.ExpenseB.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("unexpected expense B: %s", cmp.ExpenseB)
	}
	if !cmp.Difference.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("unexpected difference: %s", cmp.Difference)
	}
	if cmp.ChangePct != 150 {
		t.Fatalf("unexpected change percent: %v", cmp.ChangePct)
	}
}

// TestPercentChangeZeroBase проверяет защиту от деления на нулевую базу.
func TestPercentChangeZeroBase(t *testing.T) {
	if pct := percentChange(decimal.Zero, decimal.RequireFromString("70")); pct != 100 {
		t.Fatalf("expected 100 for growth from zero, got %v", pct)
	}
	if pct := percentChange(decimal.Zero, decimal.Zero); pct != 0 {
		t.Fatalf("expected 0 for zero to zero, got %v", pct)
	}
}

// TestCategoryTrends проверяет сравнение месяцев по категориям и сортировку
// по абсолютному проценту изменения.
func TestCategoryTrends(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	catA := uuid.New()
	catB := uuid.New()

	txns := []models.Transaction{
		withCategory(expense("100", time.Date(2026, time.February, 5, 12, 0, 0, 0, time.UTC)), catA),
		withCategory(expense("150", time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)), catA),
		withCategory(expense("200", time.Date(2026, time.February, 7, 12, 0, 0, 0, time.UTC)), catB),
		withCategory(expense("40", time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)), catB),
		withCategory(expense("777", time.Date(2025, time.November, 7, 12, 0, 0, 0, time.UTC)), catB),
	}

	trends := CategoryTrends(txns, 3, now)
	if len(trends) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(trends))
	}

	if trends[0].CategoryID != catB {
		t.Fatal("expected the biggest absolute percent change first")
	}
	if !trends[0].Change.Equal(decimal.RequireFromString("-160")) {
		t.Fatalf("unexpected change: %s", trends[0].Change)
	}
	if trends[0].ChangePct != -80 {
		t.Fatalf("unexpected change percent: %v", trends[0].ChangePct)
	}
	if trends[0].Increasing {
		t.Fatal("expected a decreasing trend")
	}
	if !trends[0].AverageMonthly.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("unexpected average: %s", trends[0].AverageMonthly)
	}

	if !trends[1].Change.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("unexpected change: %s", trends[1].Change)
	}
	if trends[1].ChangePct != 50 {
		t.Fatalf("unexpected change percent: %v", trends[1].ChangePct)
	}
	if !trends[1].AverageMonthly.Equal(decimal.RequireFromString("83.33")) {
		t.Fatalf("unexpected average: %s", trends[1].AverageMonthly)
	}
}
