// Package mealcsv serializes meal records to the fixed-column CSV schema
// and parses CSV files back into records.
package mealcsv

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"nutrisnap/internal/meal"
	"nutrisnap/internal/nutrition"
)

// ErrFormat marks a header row that matches neither accepted column set.
// Format errors fail the whole import before any row is processed.
var ErrFormat = errors.New("unrecognized CSV header")

const (
	dateLayout = "2006-01-02"
	timeLayout = "3:04 PM"

	itemsColumn = "items (json)"
)

// baseColumns is the fixed column order shared by both accepted formats.
// The legacy format is exactly this set; the current format appends the
// items column at the end. Import matches columns by name, never by
// position or count.
var baseColumns = []string{
	"id", "date", "time", "type", "foodName", "quantity",
	"calories (kcal)", "protein (g)", "carbs (g)", "fiber (g)", "sugar (g)",
	"fat (g)", "saturated fat (g)",
	"vitaminA (mcg)", "vitaminC (mg)", "vitaminD (mcg)",
	"vitaminB6 (mg)", "vitaminB12 (mcg)",
	"sodium (mg)", "iron (mg)", "calcium (mg)", "potassium (mg)", "magnesium (mg)",
}

var vitaminKeys = []string{"vitaminA", "vitaminC", "vitaminD", "vitaminB6", "vitaminB12"}
var mineralKeys = []string{"sodium", "iron", "calcium", "potassium", "magnesium"}

// microUnits gives each micronutrient column its canonical unit, used to
// zero-fill the maps on import.
var microUnits = map[string]string{
	"vitaminA":   "mcg",
	"vitaminC":   "mg",
	"vitaminD":   "mcg",
	"vitaminB6":  "mg",
	"vitaminB12": "mcg",
	"sodium":     "mg",
	"iron":       "mg",
	"calcium":    "mg",
	"potassium":  "mg",
	"magnesium":  "mg",
}

func microColumn(key string) string {
	return fmt.Sprintf("%s (%s)", key, microUnits[key])
}

// Marshal renders meals in the current format, items column included.
// String fields are always double-quoted with internal quotes doubled;
// numeric fields that are zero serialize as empty cells.
func Marshal(meals []meal.Record) string {
	var b strings.Builder

	header := append(append([]string{}, baseColumns...), itemsColumn)
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")

	for _, m := range meals {
		b.WriteString(strings.Join(row(m), ","))
		b.WriteString("\n")
	}
	return b.String()
}

func row(m meal.Record) []string {
	t := m.Time()
	n := m.Analysis.Nutrition

	cells := []string{
		m.ID,
		t.Format(dateLayout),
		t.Format(timeLayout),
		string(m.Type),
		quote(m.Analysis.FoodName),
		quote(m.Analysis.Quantity),
		num(n.Calories.Value),
		num(n.Protein.Value),
		num(n.Carbs.Value),
		num(n.Fiber.Value),
		num(n.Sugar.Value),
		num(n.Fat.Value),
		"", // saturated fat is not retained by the normalized model
	}
	for _, key := range vitaminKeys {
		cells = append(cells, num(n.Vitamins[key].Value))
	}
	for _, key := range mineralKeys {
		cells = append(cells, num(n.Minerals[key].Value))
	}

	items := ""
	if len(m.Analysis.Items) > 0 {
		data, err := json.Marshal(m.Analysis.Items)
		if err != nil {
			log.Printf("Warning: failed to serialize items for meal %s: %v", m.ID, err)
		} else {
			items = string(data)
		}
	}
	return append(cells, quote(items))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func num(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// format is the tagged variant detected once from the header set.
type format struct {
	hasItems bool
}

func detectFormat(header []string) (format, map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	for _, name := range baseColumns {
		if _, ok := index[name]; !ok {
			return format{}, nil, fmt.Errorf("%w: missing column '%s'", ErrFormat, name)
		}
	}

	_, hasItems := index[itemsColumn]
	want := len(baseColumns)
	if hasItems {
		want++
	}
	if len(index) != want {
		return format{}, nil, fmt.Errorf("%w: unexpected extra columns", ErrFormat)
	}
	return format{hasItems: hasItems}, index, nil
}

// Parse reads CSV text into meal records. The header must match one of the
// two accepted column sets or the whole parse fails with ErrFormat. Rows
// whose date/time cannot be parsed are skipped and logged; a bad items cell
// degrades to an empty items sequence for that row only.
func Parse(text string) ([]meal.Record, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrFormat)
	}

	f, index, err := detectFormat(rows[0])
	if err != nil {
		return nil, err
	}

	var meals []meal.Record
	for i, cells := range rows[1:] {
		if blankRow(cells) {
			continue
		}
		rec, ok := parseRow(f, index, cells)
		if !ok {
			log.Printf("Warning: skipping CSV row %d: bad date/time", i+2)
			continue
		}
		meals = append(meals, rec)
	}
	return meals, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(f format, index map[string]int, cells []string) (meal.Record, bool) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	stamp := cell("date") + " " + cell("time")
	at, err := time.ParseInLocation(dateLayout+" "+timeLayout, stamp, time.Local)
	if err != nil {
		return meal.Record{}, false
	}

	data := nutrition.Data{
		Calories: nutrition.Amount{Value: parseNum(cell("calories (kcal)")), Unit: "kcal"},
		Protein:  nutrition.Amount{Value: parseNum(cell("protein (g)")), Unit: "g"},
		Carbs:    nutrition.Amount{Value: parseNum(cell("carbs (g)")), Unit: "g"},
		Fiber:    nutrition.Amount{Value: parseNum(cell("fiber (g)")), Unit: "g"},
		Sugar:    nutrition.Amount{Value: parseNum(cell("sugar (g)")), Unit: "g"},
		Fat:      nutrition.Amount{Value: parseNum(cell("fat (g)")), Unit: "g"},
		Vitamins: map[string]nutrition.Amount{},
		Minerals: map[string]nutrition.Amount{},
	}
	for _, key := range vitaminKeys {
		data.Vitamins[key] = nutrition.Amount{Value: parseNum(cell(microColumn(key))), Unit: microUnits[key]}
	}
	for _, key := range mineralKeys {
		data.Minerals[key] = nutrition.Amount{Value: parseNum(cell(microColumn(key))), Unit: microUnits[key]}
	}

	items := []nutrition.Item{}
	if f.hasItems {
		if raw := cell(itemsColumn); raw != "" {
			if err := json.Unmarshal([]byte(raw), &items); err != nil {
				log.Printf("Warning: bad items JSON for meal %s, keeping row without items: %v", cell("id"), err)
				items = []nutrition.Item{}
			}
		}
	}

	return meal.Record{
		ID:        cell("id"),
		Timestamp: at.UnixMilli(),
		Type:      meal.Type(cell("type")),
		Analysis: nutrition.Analysis{
			FoodName:  cell("foodName"),
			Quantity:  cell("quantity"),
			Items:     items,
			Nutrition: data,
		},
	}, true
}

// parseNum maps blank or unparseable cells to 0 and clamps negatives so
// parsed rows keep the non-negative invariant of normalized data.
func parseNum(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
