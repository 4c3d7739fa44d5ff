package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

func monthlyBudget(amount string, start time.Time) models.Budget {
	return models.Budget{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Period:    models.BudgetPeriodMonthly,
		StartDate: start,
	}
}

// TestPredictBudgetOnTrack проверяет прогноз при умеренном темпе трат.
func TestPredictBudgetOnTrack(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 11, 15, 0, 0, 0, time.UTC)
	budget := monthlyBudget("3100", start)

	txns := []models.Transaction{
		expense("300", time.Date(2026, time.January, 3, 12, 0, 0, 0, time.UTC)),
		expense("200", time.Date(2026, time.January, 9, 12, 0, 0, 0, time.UTC)),
		expense("400", time.Date(2025, time.December, 20, 12, 0, 0, 0, time.UTC)),
		income("5000", time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)),
	}

	p := PredictBudget(budget, txns, now)
	if p.TotalDays != 31 {
		t.Fatalf("expected 31 days in january, got %d", p.TotalDays)
	}
	if p.DaysElapsed != 10 {
		t.Fatalf("expected 10 elapsed days, got %d", p.DaysElapsed)
	}
	if !p.CurrentSpent.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("unexpected spent: %s", p.CurrentSpent)
	}
	if !p.DailyAverage.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("unexpected daily average: %s", p.DailyAverage)
	}
	if !p.PredictedTotal.Equal(decimal.RequireFromString("1550")) {
		t.Fatalf("unexpected prediction: %s", p.PredictedTotal)
	}
	if !p.OnTrack {
		t.Fatal("expected the budget to be on track")
	}
	if !p.PredictedOver.IsZero() {
		t.Fatalf("expected zero overage, got %s", p.PredictedOver)
	}
	if p.Confidence != 100*10.0/31.0 {
		t.Fatalf("unexpected confidence: %v", p.Confidence)
	}
}

// TestPredictBudgetOverspend проверяет прогноз при превышении темпа.
func TestPredictBudgetOverspend(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 11, 9, 0, 0, 0, time.UTC)
	budget := monthlyBudget("300", start)

	txns := []models.Transaction{
		expense("200", time.Date(2026, time.January, 6, 12, 0, 0, 0, time.UTC)),
	}

	p := PredictBudget(budget, txns, now)
	if p.OnTrack {
		t.Fatal("expected the budget to be off track")
	}
	if !p.PredictedTotal.Equal(decimal.RequireFromString("620")) {
		t.Fatalf("unexpected prediction: %s", p.PredictedTotal)
	}
	if !p.PredictedOver.Equal(decimal.RequireFromString("320")) {
		t.Fatalf("unexpected overage: %s", p.PredictedOver)
	}
	if !p.Remaining.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected remaining: %s", p.Remaining)
	}
}

// TestPredictBudgetFirstDay проверяет минимум в один прошедший день.
func TestPredictBudgetFirstDay(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)
	budget := monthlyBudget("900", start)

	p := PredictBudget(budget, nil, now)
	if p.DaysElapsed != 1 {
		t.Fatalf("expected 1 elapsed day, got %d", p.DaysElapsed)
	}
	if !p.PredictedTotal.IsZero() {
		t.Fatalf("expected zero prediction without spending, got %s", p.PredictedTotal)
	}
	if !p.OnTrack {
		t.Fatal("expected an untouched budget to be on track")
	}
}

// TestPredictBudgetCategoryFilter проверяет учет только своей категории.
func TestPredictBudgetCategoryFilter(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 11, 9, 0, 0, 0, time.UTC)
	cat := uuid.New()

	budget := monthlyBudget("1000", start)
	budget.CategoryID = &cat

	txns := []models.Transaction{
		withCategory(expense("120", time.Date(2026, time.January, 4, 12, 0, 0, 0, time.UTC)), cat),
		withCategory(expense("80", time.Date(2026, time.January, 8, 12, 0, 0, 0, time.UTC)), uuid.New()),
		expense("60", time.Date(2026, time.January, 9, 12, 0, 0, 0, time.UTC)),
	}

	p := PredictBudget(budget, txns, now)
	if !p.CurrentSpent.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected only the budget category to count, got %s", p.CurrentSpent)
	}
}

// TestPercentUsedZeroBudget проверяет защиту от деления на нулевой бюджет.
func TestPercentUsedZeroBudget(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 11, 9, 0, 0, 0, time.UTC)

	p := PredictBudget(monthlyBudget("0", start), []models.Transaction{
		expense("50", time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC)),
	}, now)
	if p.PercentUsed() != 0 {
		t.Fatalf("expected 0 for a zero budget, got %v", p.PercentUsed())
	}

	p = PredictBudget(monthlyBudget("200", start), []models.Transaction{
		expense("50", time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC)),
	}, now)
	if p.PercentUsed() != 25 {
		t.Fatalf("expected 25, got %v", p.PercentUsed())
	}
}

// TestPredictBudgetRollsPeriod проверяет прокрутку недельного периода.
func TestPredictBudgetRollsPeriod(t *testing.T) {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 22, 12, 0, 0, 0, time.UTC)

	budget := models.Budget{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString("70"),
		Period:    models.BudgetPeriodWeekly,
		StartDate: start,
	}

	p := PredictBudget(budget, nil, now)
	expectedStart := time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC)
	if !p.PeriodStart.Equal(expectedStart) {
		t.Fatalf("expected period start %s, got %s", expectedStart, p.PeriodStart)
	}
	if p.TotalDays != 7 {
		t.Fatalf("expected 7 days, got %d", p.TotalDays)
	}
	if p.DaysElapsed != 3 {
		t.Fatalf("expected 3 elapsed days, got %d", p.DaysElapsed)
	}
}
