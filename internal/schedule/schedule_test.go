package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

func activeRecurring(freq models.Frequency, start time.Time) models.RecurringTransaction {
	return models.RecurringTransaction{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString("9.99"),
		Type:      models.TransactionTypeExpense,
		Frequency: freq,
		StartDate: start,
		IsActive:  true,
	}
}

// TestUpcomingMonthly проверяет проекцию месячной операции в окно.
func TestUpcomingMonthly(t *testing.T) {
	from := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	rec := activeRecurring(models.FrequencyMonthly, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))

	occurrences := Upcoming([]models.RecurringTransaction{rec}, from, 60)
	if len(occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
	}

	first := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !occurrences[0].Date.Equal(first) {
		t.Fatalf("expected %s, got %s", first, occurrences[0].Date)
	}
	if !occurrences[1].Date.Equal(first.AddDate(0, 1, 0)) {
		t.Fatalf("expected %s, got %s", first.AddDate(0, 1, 0), occurrences[1].Date)
	}
}

// TestUpcomingRespectsEndDate проверяет обрезание по дате окончания.
func TestUpcomingRespectsEndDate(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	rec := activeRecurring(models.FrequencyWeekly, time.Date(2026, time.February, 24, 0, 0, 0, 0, time.UTC))
	rec.EndDate = &end

	occurrences := Upcoming([]models.RecurringTransaction{rec}, from, 30)
	if len(occurrences) != 2 {
		t.Fatalf("expected 2 occurrences before the end date, got %d", len(occurrences))
	}
	for _, occ := range occurrences {
		if occ.Date.After(end) {
			t.Fatalf("expected no occurrences after %s, got %s", end, occ.Date)
		}
	}
}

// TestUpcomingSkipsInactive проверяет пропуск выключенных записей.
func TestUpcomingSkipsInactive(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	rec := activeRecurring(models.FrequencyDaily, from)
	rec.IsActive = false

	if got := Upcoming([]models.RecurringTransaction{rec}, from, 7); len(got) != 0 {
		t.Fatalf("expected no occurrences, got %d", len(got))
	}
}

// TestUpcomingSortsAcrossRecords проверяет сортировку по дате между записями.
func TestUpcomingSortsAcrossRecords(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	weekly := activeRecurring(models.FrequencyWeekly, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC))
	daily := activeRecurring(models.FrequencyDaily, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC))

	occurrences := Upcoming([]models.RecurringTransaction{weekly, daily}, from, 5)
	for i := 1; i < len(occurrences); i++ {
		if occurrences[i].Date.Before(occurrences[i-1].Date) {
			t.Fatal("expected occurrences sorted by date")
		}
	}
}
