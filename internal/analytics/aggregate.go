package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

// MaxTransactions ограничивает размер выборки для аналитических расчетов.
const MaxTransactions = 2000

var hundred = decimal.NewFromInt(100)

type SpendingTrend struct {
	Month              time.Time        `json:"month"`
	Label              string           `json:"label"`
	Income             decimal.Decimal  `json:"income"`
	Expense            decimal.Decimal  `json:"expense"`
	Balance            decimal.Decimal  `json:"balance"`
	ChangeFromPrevious *decimal.Decimal `json:"change_from_previous,omitempty"`
	ChangePercentage   *float64         `json:"change_percentage,omitempty"`
}

type CategorySpending struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
	Count      int             `json:"count"`
}

type DayOfWeekSpending struct {
	Weekday int             `json:"weekday"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

type HourlySpending struct {
	Hour  int             `json:"hour"`
	Total decimal.Decimal `json:"total"`
}

type RankedExpense struct {
	Rank        int                `json:"rank"`
	Transaction models.Transaction `json:"transaction"`
}

// MonthlyTrends строит помесячную сводку доходов и расходов за последние
// months месяцев, включая текущий. Месяцы без операций заполняются нулями,
// порядок всегда от старых к новым.
func MonthlyTrends(txns []models.Transaction, months int, now time.Time) []SpendingTrend {
	if months < 1 {
		months = 1
	}

	trends := make([]SpendingTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := monthStart(now).AddDate(0, -i, 0)
		end := monthEnd(start)

		trend := SpendingTrend{
			Month:   start,
			Label:   start.Format("2006-01"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, tx := range txns {
			if !inRange(tx.Date, start, end) {
				continue
			}
			switch tx.Type {
			case models.TransactionTypeIncome:
				trend.Income = trend.Income.Add(tx.Amount)
			case models.TransactionTypeExpense:
				trend.Expense = trend.Expense.Add(tx.Amount)
			}
		}
		trend.Balance = trend.Income.Sub(trend.Expense)
		trends = append(trends, trend)
	}

	for i := 1; i < len(trends); i++ {
		prev := trends[i-1].Expense
		change := trends[i].Expense.Sub(prev)
		trends[i].ChangeFromPrevious = &change
		if prev.IsPositive() {
			pct, _ := change.Div(prev).Mul(hundred).Float64()
			trends[i].ChangePercentage = &pct
		}
	}

	return trends
}

// CategoryBreakdown группирует операции указанного типа по категориям.
// Операции без категории пропускаются, результат отсортирован по убыванию
// суммы, доля считается от общего итога.
func CategoryBreakdown(txns []models.Transaction, txType models.TransactionType) []CategorySpending {
	totals := make(map[uuid.UUID]*CategorySpending)
	grand := decimal.Zero

	for _, tx := range txns {
		if tx.Type != txType || tx.CategoryID == nil {
			continue
		}
		entry, ok := totals[*tx.CategoryID]
		if !ok {
			entry = &CategorySpending{CategoryID: *tx.CategoryID, Amount: decimal.Zero}
			totals[*tx.CategoryID] = entry
		}
		entry.Amount = entry.Amount.Add(tx.Amount)
		entry.Count++
		grand = grand.Add(tx.Amount)
	}

	breakdown := make([]CategorySpending, 0, len(totals))
	for _, entry := range totals {
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Amount.Equal(breakdown[j].Amount) {
			return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
		}
		return breakdown[i].CategoryID.String() < breakdown[j].CategoryID.String()
	})

	if grand.IsPositive() {
		for i := range breakdown {
			pct, _ := breakdown[i].Amount.Div(grand).Mul(hundred).Float64()
			breakdown[i].Percentage = pct
		}
	}

	return breakdown
}

// SpendingByDayOfWeek распределяет расходы по дням недели.
// Возвращает ровно семь записей, с воскресенья (1) по субботу (7).
func SpendingByDayOfWeek(txns []models.Transaction) []DayOfWeekSpending {
	days := make([]DayOfWeekSpending, 7)
	for i := range days {
		days[i] = DayOfWeekSpending{Weekday: i + 1, Total: decimal.Zero, Average: decimal.Zero}
	}

	for _, tx := range txns {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		idx := int(tx.Date.Weekday())
		days[idx].Total = days[idx].Total.Add(tx.Amount)
		days[idx].Count++
	}

	for i := range days {
		if days[i].Count > 0 {
			days[i].Average = days[i].Total.Div(decimal.NewFromInt(int64(days[i].Count))).Round(2)
		}
	}

	return days
}

// SpendingByHour распределяет расходы по часу совершения операции.
// Возвращает ровно 24 записи, от 0 до 23.
func SpendingByHour(txns []models.Transaction) []HourlySpending {
	hours := make([]HourlySpending, 24)
	for i := range hours {
		hours[i] = HourlySpending{Hour: i, Total: decimal.Zero}
	}

	for _, tx := range txns {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		h := tx.Date.Hour()
		hours[h].Total = hours[h].Total.Add(tx.Amount)
	}

	return hours
}

// TopExpenses возвращает крупнейшие расходы с рангом от 1. Нулевые границы
// периода означают отсутствие ограничения. При равных суммах выше стоит
// более поздняя операция.
func TopExpenses(txns []models.Transaction, limit int, from, to time.Time) []RankedExpense {
	if limit < 1 {
		limit = 1
	}

	expenses := make([]models.Transaction, 0)
	for _, tx := range txns {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to) {
			continue
		}
		expenses = append(expenses, tx)
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Amount.Equal(expenses[j].Amount) {
			return expenses[i].Amount.GreaterThan(expenses[j].Amount)
		}
		return expenses[i].Date.After(expenses[j].Date)
	})
	if len(expenses) > limit {
		expenses = expenses[:limit]
	}

	ranked := make([]RankedExpense, 0, len(expenses))
	for i, tx := range expenses {
		ranked = append(ranked, RankedExpense{Rank: i + 1, Transaction: tx})
	}

	return ranked
}
