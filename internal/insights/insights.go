// Package insights строит ленту подсказок из готовой аналитики по фиксированным
// правилам, без обращения к внешним сервисам.
package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"example.com/pocket-ledger/backend/internal/analytics"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	TypeBudgetOffTrack  = "budget_offtrack"
	TypeBudgetNearLimit = "budget_near_limit"
	TypeCategorySpike   = "category_spike"
	TypeCategoryDrop    = "category_drop"
	TypeRecurringFound  = "recurring_found"
	TypeMonthlySwing    = "monthly_swing"
)

type Insight struct {
	Type       string     `json:"type"`
	Severity   Severity   `json:"severity"`
	Message    string     `json:"message"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	BudgetID   *uuid.UUID `json:"budget_id,omitempty"`
}

type Input struct {
	Trends         []analytics.SpendingTrend
	CategoryTrends []analytics.CategoryTrend
	Predictions    []analytics.BudgetPrediction
	Patterns       []analytics.DetectedPattern
	CategoryNames  map[uuid.UUID]string
	BudgetNames    map[uuid.UUID]string
}

// Пороговые значения правил.
const (
	nearLimitPercent    = 90.0
	spikePercent        = 30.0
	criticalOverShare   = 0.5
	swingPercent        = 20.0
	patternMinConfident = 0.8
)

// Build собирает подсказки: прогнозы бюджетов, скачки по категориям,
// найденные регулярные списания и перепады месячных итогов.
// Результат отсортирован по серьезности, внутри группы в порядке правил.
func Build(in Input) []Insight {
	out := make([]Insight, 0)

	for _, p := range in.Predictions {
		out = append(out, budgetInsights(p, in.BudgetNames)...)
	}
	for _, trend := range in.CategoryTrends {
		out = append(out, categoryInsights(trend, in.CategoryNames)...)
	}
	for _, pattern := range in.Patterns {
		if pattern.Confidence < patternMinConfident {
			continue
		}
		id := pattern.CategoryID
		out = append(out, Insight{
			Type:     TypeRecurringFound,
			Severity: SeverityInfo,
			Message: fmt.Sprintf("Looks like a recurring %s charge of ~%s in %s.",
				pattern.Frequency, pattern.AverageAmount.StringFixed(2), categoryLabel(in.CategoryNames, id)),
			CategoryID: &id,
		})
	}
	out = append(out, monthlySwing(in.Trends)...)

	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) < severityRank(out[j].Severity)
	})
	return out
}

func budgetInsights(p analytics.BudgetPrediction, names map[uuid.UUID]string) []Insight {
	name := names[p.BudgetID]
	if name == "" {
		name = "your budget"
	}
	id := p.BudgetID

	if !p.OnTrack {
		severity := SeverityWarning
		if p.BudgetAmount.IsPositive() {
			share, _ := p.PredictedOver.Div(p.BudgetAmount).Float64()
			if share >= criticalOverShare {
				severity = SeverityCritical
			}
		}
		return []Insight{{
			Type:     TypeBudgetOffTrack,
			Severity: severity,
			Message: fmt.Sprintf("%s is projected to end the period at %s, %s over the limit.",
				name, p.PredictedTotal.StringFixed(2), p.PredictedOver.StringFixed(2)),
			BudgetID: &id,
		}}
	}

	if p.PercentUsed() >= nearLimitPercent {
		return []Insight{{
			Type:     TypeBudgetNearLimit,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%s is %.0f%% used with %d days left in the period.",
				name, p.PercentUsed(), p.TotalDays-p.DaysElapsed),
			BudgetID: &id,
		}}
	}

	return nil
}

func categoryInsights(trend analytics.CategoryTrend, names map[uuid.UUID]string) []Insight {
	if !trend.Current.IsPositive() && !trend.Previous.IsPositive() {
		return nil
	}
	id := trend.CategoryID
	label := categoryLabel(names, id)

	switch {
	case trend.ChangePct >= spikePercent && trend.Previous.IsPositive():
		severity := SeverityInfo
		if trend.ChangePct >= 2*spikePercent {
			severity = SeverityWarning
		}
		return []Insight{{
			Type:     TypeCategorySpike,
			Severity: severity,
			Message: fmt.Sprintf("Spending on %s is up %.0f%% compared to last month.",
				label, trend.ChangePct),
			CategoryID: &id,
		}}
	case trend.ChangePct <= -spikePercent:
		return []Insight{{
			Type:     TypeCategoryDrop,
			Severity: SeverityInfo,
			Message: fmt.Sprintf("Spending on %s is down %.0f%% compared to last month.",
				label, math.Abs(trend.ChangePct)),
			CategoryID: &id,
		}}
	}
	return nil
}

func monthlySwing(trends []analytics.SpendingTrend) []Insight {
	if len(trends) < 2 {
		return nil
	}
	last := trends[len(trends)-1]
	if last.ChangePercentage == nil || math.Abs(*last.ChangePercentage) < swingPercent {
		return nil
	}

	direction := "more"
	if *last.ChangePercentage < 0 {
		direction = "less"
	}
	return []Insight{{
		Type:     TypeMonthlySwing,
		Severity: SeverityInfo,
		Message: fmt.Sprintf("You spent %.0f%% %s in %s than the month before.",
			math.Abs(*last.ChangePercentage), direction, last.Label),
	}}
}

func categoryLabel(names map[uuid.UUID]string, id uuid.UUID) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return "this category"
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}
