package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

type DetectOptions struct {
	MinOccurrences int
	MinConfidence  float64
}

type DetectedPattern struct {
	CategoryID    uuid.UUID        `json:"category_id"`
	Note          string           `json:"note"`
	AverageAmount decimal.Decimal  `json:"average_amount"`
	Frequency     models.Frequency `json:"frequency"`
	Occurrences   int              `json:"occurrences"`
	FirstSeen     time.Time        `json:"first_seen"`
	LastSeen      time.Time        `json:"last_seen"`
	NextExpected  time.Time        `json:"next_expected"`
	Confidence    float64          `json:"confidence"`
}

// Кластер принимает операции в пределах 15% от суммы первой операции.
var (
	clusterLowFactor  = decimal.NewFromFloat(0.85)
	clusterHighFactor = decimal.NewFromFloat(1.15)
)

// DetectRecurringPatterns ищет повторяющиеся списания: расходы группируются
// по категории, внутри категории по близости сумм, затем по датам кластера
// определяется частота. Кластеры с малым числом операций или низкой
// уверенностью отбрасываются.
func DetectRecurringPatterns(txns []models.Transaction, opts DetectOptions) []DetectedPattern {
	if opts.MinOccurrences < 2 {
		opts.MinOccurrences = 3
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.6
	}
	if len(txns) > MaxTransactions {
		txns = txns[:MaxTransactions]
	}

	groups := make(map[uuid.UUID][]models.Transaction)
	order := make([]uuid.UUID, 0)
	for _, tx := range txns {
		if tx.Type != models.TransactionTypeExpense || tx.CategoryID == nil {
			continue
		}
		id := *tx.CategoryID
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], tx)
	}

	patterns := make([]DetectedPattern, 0)
	for _, id := range order {
		for _, cluster := range clusterByAmount(groups[id]) {
			if len(cluster) < opts.MinOccurrences {
				continue
			}
			pattern, ok := buildPattern(id, cluster, opts.MinConfidence)
			if !ok {
				continue
			}
			patterns = append(patterns, pattern)
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].CategoryID.String() < patterns[j].CategoryID.String()
	})

	return patterns
}

// clusterByAmount жадно группирует операции вокруг суммы первой по дате
// операции, еще не попавшей в кластер. Границы задает только операция-якорь,
// поэтому состав кластеров зависит от порядка дат.
func clusterByAmount(txns []models.Transaction) [][]models.Transaction {
	sorted := make([]models.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	clusters := make([][]models.Transaction, 0)
	used := make([]bool, len(sorted))
	for i := range sorted {
		if used[i] {
			continue
		}
		low := sorted[i].Amount.Mul(clusterLowFactor)
		high := sorted[i].Amount.Mul(clusterHighFactor)

		cluster := []models.Transaction{sorted[i]}
		used[i] = true
		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			if sorted[j].Amount.GreaterThanOrEqual(low) && sorted[j].Amount.LessThanOrEqual(high) {
				cluster = append(cluster, sorted[j])
				used[j] = true
			}
		}
		clusters = append(clusters, cluster)
	}

	return clusters
}

func buildPattern(categoryID uuid.UUID, cluster []models.Transaction, minConfidence float64) (DetectedPattern, bool) {
	dates := make([]time.Time, 0, len(cluster))
	total := decimal.Zero
	note := ""
	for _, tx := range cluster {
		dates = append(dates, tx.Date)
		total = total.Add(tx.Amount)
		if note == "" && tx.Note != "" {
			note = tx.Note
		}
	}

	freq, confidence, ok := ClassifyIntervals(dates)
	if !ok || confidence < minConfidence {
		return DetectedPattern{}, false
	}

	last := cluster[len(cluster)-1]
	return DetectedPattern{
		CategoryID:    categoryID,
		Note:          note,
		AverageAmount: total.Div(decimal.NewFromInt(int64(len(cluster)))).Round(2),
		Frequency:     freq,
		Occurrences:   len(cluster),
		FirstSeen:     dayStart(cluster[0].Date),
		LastSeen:      dayStart(last.Date),
		NextExpected:  freq.Next(dayStart(last.Date)),
		Confidence:    confidence,
	}, true
}
