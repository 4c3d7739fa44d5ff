package analytics

import (
	"math"
	"testing"
	"time"

	"example.com/pocket-ledger/backend/internal/models"
)

func datesEvery(start time.Time, stepDays, count int) []time.Time {
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, start.AddDate(0, 0, i*stepDays))
	}
	return dates
}

// TestClassifyIntervalsMonthly проверяет распознавание месячного ритма.
func TestClassifyIntervalsMonthly(t *testing.T) {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	freq, confidence, ok := ClassifyIntervals(datesEvery(start, 30, 4))
	if !ok {
		t.Fatal("expected a recognized frequency")
	}
	if freq != models.FrequencyMonthly {
		t.Fatalf("expected monthly, got %s", freq)
	}
	if confidence != 1 {
		t.Fatalf("expected full confidence for even gaps, got %v", confidence)
	}
}

// TestClassifyIntervalsWeekly проверяет распознавание недельного ритма.
func TestClassifyIntervalsWeekly(t *testing.T) {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	freq, _, ok := ClassifyIntervals(datesEvery(start, 7, 5))
	if !ok || freq != models.FrequencyWeekly {
		t.Fatalf("expected weekly, got %s (%v)", freq, ok)
	}
}

// TestClassifyIntervalsBiweekly проверяет распознавание двухнедельного ритма.
func TestClassifyIntervalsBiweekly(t *testing.T) {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	freq, _, ok := ClassifyIntervals(datesEvery(start, 14, 4))
	if !ok || freq != models.FrequencyBiweekly {
		t.Fatalf("expected biweekly, got %s (%v)", freq, ok)
	}
}

// TestClassifyIntervalsUnsorted проверяет сортировку дат перед расчетом.
func TestClassifyIntervalsUnsorted(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC),
	}

	freq, _, ok := ClassifyIntervals(dates)
	if !ok || freq != models.FrequencyMonthly {
		t.Fatalf("expected monthly from unsorted dates, got %s (%v)", freq, ok)
	}
}

// TestClassifyIntervalsJitter проверяет падение уверенности при разбросе.
func TestClassifyIntervalsJitter(t *testing.T) {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{
		start,
		start.AddDate(0, 0, 28),
		start.AddDate(0, 0, 60),
	}

	freq, confidence, ok := ClassifyIntervals(dates)
	if !ok || freq != models.FrequencyMonthly {
		t.Fatalf("expected monthly, got %s (%v)", freq, ok)
	}

	expected := 1 - 2.0/30.0
	if math.Abs(confidence-expected) > 1e-9 {
		t.Fatalf("expected confidence %v, got %v", expected, confidence)
	}
}

// TestClassifyIntervalsIrregular проверяет отказ вне полос частот.
func TestClassifyIntervalsIrregular(t *testing.T) {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	if _, _, ok := ClassifyIntervals(datesEvery(start, 3, 4)); ok {
		t.Fatal("expected no frequency for 3-day gaps")
	}
	if _, _, ok := ClassifyIntervals(datesEvery(start, 50, 4)); ok {
		t.Fatal("expected no frequency for 50-day gaps")
	}
	if _, _, ok := ClassifyIntervals(datesEvery(start, 30, 1)); ok {
		t.Fatal("expected no frequency for a single date")
	}
}
