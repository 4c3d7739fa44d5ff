package analytics

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

// fallbackPeriodDays используется, когда длину периода вычислить не удалось.
const fallbackPeriodDays = 30

type BudgetPrediction struct {
	BudgetID       uuid.UUID       `json:"budget_id"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	TotalDays      int             `json:"total_days"`
	DaysElapsed    int             `json:"days_elapsed"`
	BudgetAmount   decimal.Decimal `json:"budget_amount"`
	CurrentSpent   decimal.Decimal `json:"current_spent"`
	DailyAverage   decimal.Decimal `json:"daily_average"`
	PredictedTotal decimal.Decimal `json:"predicted_total"`
	Remaining      decimal.Decimal `json:"remaining"`
	PredictedOver  decimal.Decimal `json:"predicted_over"`
	OnTrack        bool            `json:"on_track"`
	Confidence     float64         `json:"confidence"`
}

// PercentUsed возвращает долю израсходованного бюджета в процентах.
// Для нулевого бюджета возвращает 0.
func (p BudgetPrediction) PercentUsed() float64 {
	if !p.BudgetAmount.IsPositive() {
		return 0
	}
	pct, _ := p.CurrentSpent.Div(p.BudgetAmount).Mul(hundred).Float64()
	return pct
}

// PredictBudget проецирует расход бюджета на конец текущего периода по
// текущему темпу трат. Уверенность прогноза растет с долей прошедшего
// периода и не превышает 100.
func PredictBudget(budget models.Budget, txns []models.Transaction, now time.Time) BudgetPrediction {
	start, next := periodWindow(budget.Period, budget.StartDate, now)

	totalDays := daysBetween(start, next)
	if totalDays <= 0 {
		totalDays = fallbackPeriodDays
	}
	elapsed := daysBetween(start, now)
	if elapsed < 1 {
		elapsed = 1
	}
	if elapsed > totalDays {
		elapsed = totalDays
	}

	spent := decimal.Zero
	for _, tx := range txns {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		if budget.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *budget.CategoryID) {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(next) {
			continue
		}
		spent = spent.Add(tx.Amount)
	}

	elapsedDec := decimal.NewFromInt(int64(elapsed))
	totalDec := decimal.NewFromInt(int64(totalDays))

	daily := spent.Div(elapsedDec)
	predicted := daily.Mul(totalDec).Round(2)
	expected := budget.Amount.Div(totalDec).Mul(elapsedDec)

	over := predicted.Sub(budget.Amount)
	if over.IsNegative() {
		over = decimal.Zero
	}

	return BudgetPrediction{
		BudgetID:       budget.ID,
		PeriodStart:    start,
		PeriodEnd:      next.AddDate(0, 0, -1),
		TotalDays:      totalDays,
		DaysElapsed:    elapsed,
		BudgetAmount:   budget.Amount,
		CurrentSpent:   spent,
		DailyAverage:   daily.Round(2),
		PredictedTotal: predicted,
		Remaining:      budget.Amount.Sub(spent),
		PredictedOver:  over,
		OnTrack:        !spent.GreaterThan(expected),
		Confidence:     math.Min(100, 100*float64(elapsed)/float64(totalDays)),
	}
}

// periodWindow возвращает текущий период бюджета как полуинтервал
// [start, next): период прокручивается от даты начала до момента now.
func periodWindow(period models.BudgetPeriod, startDate, now time.Time) (time.Time, time.Time) {
	start := dayStart(startDate)
	if now.Before(start) {
		return start, advancePeriod(period, start)
	}
	for {
		next := advancePeriod(period, start)
		if now.Before(next) {
			return start, next
		}
		start = next
	}
}

func advancePeriod(period models.BudgetPeriod, t time.Time) time.Time {
	switch period {
	case models.BudgetPeriodWeekly:
		return t.AddDate(0, 0, 7)
	case models.BudgetPeriodYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}
