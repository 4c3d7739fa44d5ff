package analytics

import (
	"math"
	"time"
)

// monthStart возвращает начало календарного месяца для указанного момента.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthEnd возвращает последний момент календарного месяца.
func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// dayStart обнуляет время в пределах суток.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween возвращает число полных суток между двумя датами.
func daysBetween(from, to time.Time) int {
	return int(math.Round(dayStart(to).Sub(dayStart(from)).Hours() / 24))
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
