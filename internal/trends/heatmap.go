package trends

import (
	"math"
	"time"

	"nutrisnap/internal/meal"
)

// DefaultColor is the zero-activity cell color and the fallback when no
// bucket matches.
const DefaultColor = "#ebedf0"

// MealSummary is one meal inside a heatmap day's drill-down.
type MealSummary struct {
	Name     string  `json:"name"`
	Time     string  `json:"time"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DayDetails carries the full per-day breakdown behind a heatmap cell.
type DayDetails struct {
	Calories float64       `json:"calories"`
	Protein  float64       `json:"protein"`
	Carbs    float64       `json:"carbs"`
	Fat      float64       `json:"fat"`
	Meals    []MealSummary `json:"meals"`
}

// HeatmapDay is one calendar cell: the selected metric's daily total plus
// the drill-down details.
type HeatmapDay struct {
	Date    string     `json:"date"`
	Count   float64    `json:"count"`
	Details DayDetails `json:"details"`
}

// HeatmapData returns one entry per day of the trailing six-calendar-month
// window: from the first day of the month five months back through today,
// inclusive. Count is the chosen metric's daily total; an empty or unknown
// metric falls back to calories.
func (a *Aggregator) HeatmapData(metric string) []HeatmapDay {
	switch metric {
	case "calories", "protein", "carbs", "fat":
	default:
		metric = "calories"
	}

	today := meal.DayStart(a.now())
	start := time.Date(today.Year(), today.Month()-5, 1, 0, 0, 0, 0, today.Location())

	byDay := a.mealsByDay()

	var out []HeatmapDay
	for _, day := range eachDay(start, today) {
		cell := HeatmapDay{Date: day.Format(dateLayout)}
		cell.Details.Meals = []MealSummary{}
		for _, m := range byDay[cell.Date] {
			n := m.Analysis.Nutrition
			cell.Details.Calories += n.Calories.Value
			cell.Details.Protein += n.Protein.Value
			cell.Details.Carbs += n.Carbs.Value
			cell.Details.Fat += n.Fat.Value
			cell.Details.Meals = append(cell.Details.Meals, MealSummary{
				Name:     m.Analysis.FoodName,
				Time:     m.Time().Format("3:04 PM"),
				Calories: n.Calories.Value,
				Protein:  n.Protein.Value,
				Carbs:    n.Carbs.Value,
				Fat:      n.Fat.Value,
			})
		}
		switch metric {
		case "protein":
			cell.Count = cell.Details.Protein
		case "carbs":
			cell.Count = cell.Details.Carbs
		case "fat":
			cell.Count = cell.Details.Fat
		default:
			cell.Count = cell.Details.Calories
		}
		out = append(out, cell)
	}
	return out
}

// Range is one legend bucket of the heatmap color scale.
type Range struct {
	Min   float64
	Max   float64
	Color string
	Label string
}

// Fixed five-bucket scales per metric. First match wins, shared boundary
// values fall into the earlier bucket, the top bucket is unbounded.
var metricRanges = map[string][]Range{
	"calories": {
		{0, 0, DefaultColor, "0"},
		{0, 500, "#b7e4c7", "1-500"},
		{500, 1000, "#74c69d", "500-1000"},
		{1000, 2000, "#40916c", "1000-2000"},
		{2000, math.Inf(1), "#1b4332", "2000+"},
	},
	"protein": {
		{0, 0, DefaultColor, "0"},
		{0, 25, "#b7e4c7", "1-25"},
		{25, 50, "#74c69d", "25-50"},
		{50, 100, "#40916c", "50-100"},
		{100, math.Inf(1), "#1b4332", "100+"},
	},
	"carbs": {
		{0, 0, DefaultColor, "0"},
		{0, 50, "#b7e4c7", "1-50"},
		{50, 150, "#74c69d", "50-150"},
		{150, 250, "#40916c", "150-250"},
		{250, math.Inf(1), "#1b4332", "250+"},
	},
	"fat": {
		{0, 0, DefaultColor, "0"},
		{0, 20, "#b7e4c7", "1-20"},
		{20, 40, "#74c69d", "20-40"},
		{40, 70, "#40916c", "40-70"},
		{70, math.Inf(1), "#1b4332", "70+"},
	},
}

// MetricRanges returns the legend buckets for a metric, defaulting to the
// calories scale for unknown metrics.
func MetricRanges(metric string) []Range {
	if ranges, ok := metricRanges[metric]; ok {
		return ranges
	}
	return metricRanges["calories"]
}

// MetricColor maps a daily total to the color of the first bucket whose
// [min, max] interval contains it.
func MetricColor(value float64, metric string) string {
	for _, r := range MetricRanges(metric) {
		if value >= r.Min && value <= r.Max {
			return r.Color
		}
	}
	return DefaultColor
}
