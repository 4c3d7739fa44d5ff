package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

type MonthComparison struct {
	MonthA     time.Time       `json:"month_a"`
	MonthB     time.Time       `json:"month_b"`
	IncomeA    decimal.Decimal `json:"income_a"`
	IncomeB    decimal.Decimal `json:"income_b"`
	ExpenseA   decimal.Decimal `json:"expense_a"`
	ExpenseB   decimal.Decimal `json:"expense_b"`
	Difference decimal.Decimal `json:"difference"`
	ChangePct  float64         `json:"change_pct"`
}

type CategoryTrend struct {
	CategoryID     uuid.UUID       `json:"category_id"`
	Current        decimal.Decimal `json:"current"`
	Previous       decimal.Decimal `json:"previous"`
	Change         decimal.Decimal `json:"change"`
	ChangePct      float64         `json:"change_pct"`
	Increasing     bool            `json:"increasing"`
	AverageMonthly decimal.Decimal `json:"average_monthly"`
}

// CompareMonths сравнивает итоги двух календарных месяцев.
// Разница и процент считаются по расходам относительно месяца A.
func CompareMonths(txns []models.Transaction, monthA, monthB time.Time) MonthComparison {
	cmp := MonthComparison{
		MonthA:   monthStart(monthA),
		MonthB:   monthStart(monthB),
		IncomeA:  decimal.Zero,
		IncomeB:  decimal.Zero,
		ExpenseA: decimal.Zero,
		ExpenseB: decimal.Zero,
	}
	endA := monthEnd(cmp.MonthA)
	endB := monthEnd(cmp.MonthB)

	for _, tx := range txns {
		inA := inRange(tx.Date, cmp.MonthA, endA)
		inB := inRange(tx.Date, cmp.MonthB, endB)
		if !inA && !inB {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			if inA {
				cmp.IncomeA = cmp.IncomeA.Add(tx.Amount)
			}
			if inB {
				cmp.IncomeB = cmp.IncomeB.Add(tx.Amount)
			}
		case models.TransactionTypeExpense:
			if inA {
				cmp.ExpenseA = cmp.ExpenseA.Add(tx.Amount)
			}
			if inB {
				cmp.ExpenseB = cmp.ExpenseB.Add(tx.Amount)
			}
		}
	}

	cmp.Difference = cmp.ExpenseB.Sub(cmp.ExpenseA)
	cmp.ChangePct = percentChange(cmp.ExpenseA, cmp.ExpenseB)
	return cmp
}

// CategoryTrends сравнивает расходы по категориям в текущем и прошлом месяце
// и считает средний расход за окно последних months месяцев. Среднее делится
// на длину окна, а не на число месяцев с операциями. Результат отсортирован
// по абсолютному проценту изменения, от большего к меньшему.
func CategoryTrends(txns []models.Transaction, months int, now time.Time) []CategoryTrend {
	if months < 2 {
		months = 2
	}

	curStart := monthStart(now)
	curEnd := monthEnd(now)
	prevStart := curStart.AddDate(0, -1, 0)
	prevEnd := monthEnd(prevStart)
	windowStart := curStart.AddDate(0, -(months - 1), 0)

	type accumulator struct {
		trend CategoryTrend
		total decimal.Decimal
	}
	byCategory := make(map[uuid.UUID]*accumulator)

	for _, tx := range txns {
		if tx.Type != models.TransactionTypeExpense || tx.CategoryID == nil {
			continue
		}
		if !inRange(tx.Date, windowStart, curEnd) {
			continue
		}
		acc, ok := byCategory[*tx.CategoryID]
		if !ok {
			acc = &accumulator{
				trend: CategoryTrend{
					CategoryID: *tx.CategoryID,
					Current:    decimal.Zero,
					Previous:   decimal.Zero,
				},
				total: decimal.Zero,
			}
			byCategory[*tx.CategoryID] = acc
		}
		acc.total = acc.total.Add(tx.Amount)
		if inRange(tx.Date, curStart, curEnd) {
			acc.trend.Current = acc.trend.Current.Add(tx.Amount)
		}
		if inRange(tx.Date, prevStart, prevEnd) {
			acc.trend.Previous = acc.trend.Previous.Add(tx.Amount)
		}
	}

	trends := make([]CategoryTrend, 0, len(byCategory))
	monthsDivisor := decimal.NewFromInt(int64(months))
	for _, acc := range byCategory {
		trend := acc.trend
		trend.Change = trend.Current.Sub(trend.Previous)
		trend.ChangePct = percentChange(trend.Previous, trend.Current)
		trend.Increasing = trend.Change.IsPositive()
		trend.AverageMonthly = acc.total.Div(monthsDivisor).Round(2)
		trends = append(trends, trend)
	}

	sort.Slice(trends, func(i, j int) bool {
		absI := math.Abs(trends[i].ChangePct)
		absJ := math.Abs(trends[j].ChangePct)
		if absI != absJ {
			return absI > absJ
		}
		return trends[i].CategoryID.String() < trends[j].CategoryID.String()
	})

	return trends
}

// percentChange считает процент изменения с защитой от нулевой базы:
// при нулевой базе возвращает 100 для ненулевого нового значения и 0 иначе.
func percentChange(prev, current decimal.Decimal) float64 {
	if prev.IsPositive() {
		pct, _ := current.Sub(prev).Div(prev).Mul(hundred).Float64()
		return pct
	}
	if current.IsPositive() {
		return 100
	}
	return 0
}
