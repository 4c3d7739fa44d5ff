// Package schedule проецирует регулярные операции на будущие даты.
package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

type Occurrence struct {
	RecurringID uuid.UUID              `json:"recurring_id"`
	CategoryID  *uuid.UUID             `json:"category_id,omitempty"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Note        string                 `json:"note"`
	Currency    string                 `json:"currency"`
	Date        time.Time              `json:"date"`
}

// Upcoming возвращает ожидаемые списания активных регулярных операций в окне
// [from, from+days), отсортированные по дате. Неактивные записи и записи с
// неизвестной частотой пропускаются, дата окончания учитывается.
func Upcoming(recs []models.RecurringTransaction, from time.Time, days int) []Occurrence {
	if days < 1 {
		days = 1
	}
	fromDay := dayStart(from)
	horizon := fromDay.AddDate(0, 0, days)

	occurrences := make([]Occurrence, 0)
	for _, rec := range recs {
		if !rec.IsActive || rec.Frequency.IntervalDays() == 0 {
			continue
		}

		next := dayStart(rec.StartDate)
		for next.Before(fromDay) {
			next = rec.Frequency.Next(next)
		}

		for next.Before(horizon) {
			if rec.EndDate != nil && next.After(dayStart(*rec.EndDate)) {
				break
			}
			occurrences = append(occurrences, Occurrence{
				RecurringID: rec.ID,
				CategoryID:  rec.CategoryID,
				Amount:      rec.Amount,
				Type:        rec.Type,
				Note:        rec.Note,
				Currency:    rec.Currency,
				Date:        next,
			})
			next = rec.Frequency.Next(next)
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		if !occurrences[i].Date.Equal(occurrences[j].Date) {
			return occurrences[i].Date.Before(occurrences[j].Date)
		}
		return occurrences[i].RecurringID.String() < occurrences[j].RecurringID.String()
	})

	return occurrences
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
