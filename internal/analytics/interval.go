package analytics

import (
	"math"
	"sort"
	"time"

	"example.com/pocket-ledger/backend/internal/models"
)

type intervalBand struct {
	min  float64
	max  float64
	freq models.Frequency
}

// Полосы проверяются в порядке убывания интервала, начиная с месячной.
var intervalBands = []intervalBand{
	{min: 25, max: 35, freq: models.FrequencyMonthly},
	{min: 12, max: 16, freq: models.FrequencyBiweekly},
	{min: 5, max: 9, freq: models.FrequencyWeekly},
}

// ClassifyIntervals определяет частоту повторения по датам операций.
// Средний промежуток между соседними датами сопоставляется с полосами
// частот; уверенность падает с ростом разброса промежутков.
func ClassifyIntervals(dates []time.Time) (models.Frequency, float64, bool) {
	if len(dates) < 2 {
		return "", 0, false
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, float64(daysBetween(sorted[i-1], sorted[i])))
	}

	mean := meanOf(gaps)
	for _, band := range intervalBands {
		if mean < band.min || mean > band.max {
			continue
		}
		expected := float64(band.freq.IntervalDays())
		confidence := 1 - stdDev(gaps, mean)/expected
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		return band.freq, confidence, true
	}

	return "", 0, false
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev считает среднеквадратичное отклонение по всей выборке, не по ней
// минус один.
func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
