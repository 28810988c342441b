package usecase

import (
	"math"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// NutritionAggregatorConfig holds configuration for the aggregator
type NutritionAggregatorConfig struct {
	Tolerances   domain.Tolerances
	DefaultGoals domain.NutritionGoals
}

// NutritionAggregator sums slot macros and classifies them against goals.
// It performs no I/O and never fails.
type NutritionAggregator struct {
	tolerances   domain.Tolerances
	defaultGoals domain.NutritionGoals
}

// DaySummary is a day's totals with a status per macro
type DaySummary struct {
	Totals domain.MacroTotals                      `json:"totals"`
	Goals  domain.NutritionGoals                   `json:"goals"`
	Status map[domain.MacroKind]domain.MacroStatus `json:"status"`
}

// DayTotals pairs a plan date with its totals
type DayTotals struct {
	Date   string             `json:"date"`
	Totals domain.MacroTotals `json:"totals"`
}

// WeekTotals summarizes a sequence of days
type WeekTotals struct {
	Days         []DayTotals        `json:"days"`
	Total        domain.MacroTotals `json:"total"`
	DailyAverage domain.MacroTotals `json:"dailyAverage"`
}

// NewNutritionAggregator creates an aggregator; zero config fields fall back to defaults
func NewNutritionAggregator(config NutritionAggregatorConfig) *NutritionAggregator {
	tolerances := config.Tolerances
	if tolerances == (domain.Tolerances{}) {
		tolerances = domain.DefaultTolerances()
	}

	return &NutritionAggregator{
		tolerances:   tolerances,
		defaultGoals: config.DefaultGoals.WithDefaults(domain.DefaultGoals()),
	}
}

// AggregateDay sums the macros of every recipe in the day.
// Missing, negative or NaN values contribute zero.
func (a *NutritionAggregator) AggregateDay(slots domain.DaySlots) domain.MacroTotals {
	return AggregateDay(slots)
}

// AggregateDay sums the macros of every recipe in the day
func AggregateDay(slots domain.DaySlots) domain.MacroTotals {
	var totals domain.MacroTotals
	for _, r := range slots.Recipes() {
		totals.Calories += nonNegative(r.Macros.Calories)
		totals.Protein += nonNegative(r.Macros.Protein)
		totals.Carbs += nonNegative(r.Macros.Carbs)
		totals.Fat += nonNegative(r.Macros.Fat)
	}
	return totals
}

// AggregateWeek totals each day in the given order plus the period total and daily average
func (a *NutritionAggregator) AggregateWeek(days []domain.MealPlanDay) WeekTotals {
	week := WeekTotals{Days: make([]DayTotals, 0, len(days))}
	for _, day := range days {
		totals := AggregateDay(day.Meals)
		week.Days = append(week.Days, DayTotals{Date: day.Date, Totals: totals})
		week.Total = week.Total.Add(totals)
	}

	if n := float64(len(days)); n > 0 {
		week.DailyAverage = domain.MacroTotals{
			Calories: week.Total.Calories / n,
			Protein:  week.Total.Protein / n,
			Carbs:    week.Total.Carbs / n,
			Fat:      week.Total.Fat / n,
		}
	}
	return week
}

// ClassifyMacro classifies a total using the aggregator's tolerances
func (a *NutritionAggregator) ClassifyMacro(total, goal float64, kind domain.MacroKind) domain.MacroStatus {
	return classify(total, goal, a.tolerances.For(kind))
}

// ClassifyMacro classifies a total using the default tolerances
func ClassifyMacro(total, goal float64, kind domain.MacroKind) domain.MacroStatus {
	return classify(total, goal, domain.DefaultTolerances().For(kind))
}

func classify(total, goal float64, band domain.Tolerance) domain.MacroStatus {
	switch {
	case total > goal+band.Above:
		return domain.StatusTooHigh
	case total >= goal-band.Below:
		return domain.StatusTargetMet
	default:
		return domain.StatusTooLow
	}
}

// SummarizeDay aggregates a day and classifies each macro against goals.
// Non-positive goals are replaced with the configured defaults.
func (a *NutritionAggregator) SummarizeDay(slots domain.DaySlots, goals domain.NutritionGoals) DaySummary {
	goals = goals.WithDefaults(a.defaultGoals)
	totals := AggregateDay(slots)

	status := make(map[domain.MacroKind]domain.MacroStatus, len(domain.MacroKinds))
	for _, kind := range domain.MacroKinds {
		status[kind] = a.ClassifyMacro(totals.Get(kind), goals.Get(kind), kind)
	}

	return DaySummary{Totals: totals, Goals: goals, Status: status}
}

// DefaultGoals returns the goals used when a request carries none
func (a *NutritionAggregator) DefaultGoals() domain.NutritionGoals {
	return a.defaultGoals
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
