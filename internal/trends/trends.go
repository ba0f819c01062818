// Package trends computes day-bucketed aggregations over the meal store.
// Every query re-reads the full store; nothing is cached between calls.
package trends

import (
	"time"

	"nutrisnap/internal/meal"
)

// Calorie-equivalent conversion factors per gram of macro.
const (
	ProteinKcalPerGram = 4
	CarbsKcalPerGram   = 4
	FatKcalPerGram     = 9
)

const dateLayout = "2006-01-02"

// Aggregator answers trend queries over a meal store.
type Aggregator struct {
	meals *meal.Store

	now func() time.Time
}

func NewAggregator(meals *meal.Store) *Aggregator {
	return &Aggregator{meals: meals, now: time.Now}
}

// DayTotal is one calendar day's summed core macros.
type DayTotal struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailyTotals returns one entry per calendar day in [start, end] inclusive,
// in date order, days without meals included as zeros.
func (a *Aggregator) DailyTotals(start, end time.Time) []DayTotal {
	byDay := a.mealsByDay()

	var out []DayTotal
	for _, day := range eachDay(start, end) {
		total := DayTotal{Date: day.Format(dateLayout)}
		for _, m := range byDay[total.Date] {
			n := m.Analysis.Nutrition
			total.Calories += n.Calories.Value
			total.Protein += n.Protein.Value
			total.Carbs += n.Carbs.Value
			total.Fat += n.Fat.Value
		}
		out = append(out, total)
	}
	return out
}

// MacroSplit is the average macro breakdown over an interval. Percentages
// are shares of macro-attributed calories, not of total logged calories.
type MacroSplit struct {
	ProteinPct float64 `json:"protein"`
	CarbsPct   float64 `json:"carbs"`
	FatPct     float64 `json:"fat"`
	AvgProtein float64 `json:"avgProtein"`
	AvgCarbs   float64 `json:"avgCarbs"`
	AvgFat     float64 `json:"avgFat"`
}

// MacroAverages computes macro percentage shares and per-day gram averages
// over [start, end]. Zero-meal days count in the averages. An interval with
// no macro calories yields all-zero percentages.
func (a *Aggregator) MacroAverages(start, end time.Time) MacroSplit {
	daily := a.DailyTotals(start, end)

	var protein, carbs, fat float64
	for _, day := range daily {
		protein += day.Protein
		carbs += day.Carbs
		fat += day.Fat
	}

	proteinCals := protein * ProteinKcalPerGram
	carbCals := carbs * CarbsKcalPerGram
	fatCals := fat * FatKcalPerGram
	sumCals := proteinCals + carbCals + fatCals

	split := MacroSplit{}
	if sumCals > 0 {
		split.ProteinPct = proteinCals / sumCals * 100
		split.CarbsPct = carbCals / sumCals * 100
		split.FatPct = fatCals / sumCals * 100
	}
	if days := len(daily); days > 0 {
		split.AvgProtein = protein / float64(days)
		split.AvgCarbs = carbs / float64(days)
		split.AvgFat = fat / float64(days)
	}
	return split
}

// StackedMacros is DailyTotals with the three macros converted to their
// kcal equivalents for stacked-bar rendering; calories pass through.
func (a *Aggregator) StackedMacros(start, end time.Time) []DayTotal {
	daily := a.DailyTotals(start, end)
	out := make([]DayTotal, 0, len(daily))
	for _, day := range daily {
		out = append(out, DayTotal{
			Date:     day.Date,
			Protein:  day.Protein * ProteinKcalPerGram,
			Carbs:    day.Carbs * CarbsKcalPerGram,
			Fat:      day.Fat * FatKcalPerGram,
			Calories: day.Calories,
		})
	}
	return out
}

// TrendPoint is one day's summed value for a single nutrient.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// NutrientTrend sums one nutrient per day over [start, end]. The key is
// resolved against the six core fields first, then vitamins, then minerals;
// an unresolvable key sums to 0 for every day.
func (a *Aggregator) NutrientTrend(start, end time.Time, key string) []TrendPoint {
	byDay := a.mealsByDay()

	var out []TrendPoint
	for _, day := range eachDay(start, end) {
		point := TrendPoint{Date: day.Format(dateLayout)}
		for _, m := range byDay[point.Date] {
			point.Value += nutrientValue(m, key)
		}
		out = append(out, point)
	}
	return out
}

func nutrientValue(m meal.Record, key string) float64 {
	n := m.Analysis.Nutrition
	switch key {
	case "calories":
		return n.Calories.Value
	case "protein":
		return n.Protein.Value
	case "carbs":
		return n.Carbs.Value
	case "fat":
		return n.Fat.Value
	case "fiber":
		return n.Fiber.Value
	case "sugar":
		return n.Sugar.Value
	}
	if a, ok := n.Vitamins[key]; ok {
		return a.Value
	}
	if a, ok := n.Minerals[key]; ok {
		return a.Value
	}
	return 0
}

// mealsByDay indexes the full store by calendar-day key.
func (a *Aggregator) mealsByDay() map[string][]meal.Record {
	byDay := make(map[string][]meal.Record)
	for _, m := range a.meals.All() {
		key := meal.DayStart(m.Time()).Format(dateLayout)
		byDay[key] = append(byDay[key], m)
	}
	return byDay
}

// eachDay lists the day starts of the closed interval [start, end].
func eachDay(start, end time.Time) []time.Time {
	var days []time.Time
	last := meal.DayStart(end)
	for day := meal.DayStart(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
