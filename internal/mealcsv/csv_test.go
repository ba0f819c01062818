package mealcsv

import (
	"errors"
	"strings"
	"testing"
	"time"

	"nutrisnap/internal/meal"
	"nutrisnap/internal/nutrition"
)

func record(id string, at time.Time, name string, cal, protein float64) meal.Record {
	return meal.Record{
		ID:        id,
		Timestamp: at.UnixMilli(),
		Type:      meal.TypeManual,
		Analysis: nutrition.Analysis{
			FoodName: name,
			Quantity: "1 serving",
			Items:    []nutrition.Item{},
			Nutrition: nutrition.Data{
				Calories: nutrition.Amount{Value: cal, Unit: "kcal"},
				Protein:  nutrition.Amount{Value: protein, Unit: "g"},
				Carbs:    nutrition.Amount{Unit: "g"},
				Fat:      nutrition.Amount{Unit: "g"},
				Fiber:    nutrition.Amount{Unit: "g"},
				Sugar:    nutrition.Amount{Unit: "g"},
				Vitamins: map[string]nutrition.Amount{},
				Minerals: map[string]nutrition.Amount{},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	meals := []meal.Record{
		record("a", time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), "Oatmeal", 350, 10),
		record("b", time.Date(2024, 1, 1, 13, 30, 0, 0, time.Local), `Salad, "house" style`, 420, 35),
	}

	got, err := Parse(Marshal(meals))
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if len(got) != len(meals) {
		t.Fatalf("Expected %d records, got %d", len(meals), len(got))
	}

	for i, want := range meals {
		g := got[i]
		if g.ID != want.ID {
			t.Errorf("Record %d: expected id '%s', got '%s'", i, want.ID, g.ID)
		}
		if g.Type != want.Type {
			t.Errorf("Record %d: expected type '%s', got '%s'", i, want.Type, g.Type)
		}
		if g.Analysis.FoodName != want.Analysis.FoodName {
			t.Errorf("Record %d: expected foodName '%s', got '%s'",
				i, want.Analysis.FoodName, g.Analysis.FoodName)
		}
		if g.Analysis.Quantity != want.Analysis.Quantity {
			t.Errorf("Record %d: expected quantity '%s', got '%s'",
				i, want.Analysis.Quantity, g.Analysis.Quantity)
		}
		if g.Analysis.Nutrition.Calories.Value != want.Analysis.Nutrition.Calories.Value {
			t.Errorf("Record %d: expected calories %v, got %v",
				i, want.Analysis.Nutrition.Calories.Value, g.Analysis.Nutrition.Calories.Value)
		}
		if g.Analysis.Nutrition.Protein.Value != want.Analysis.Nutrition.Protein.Value {
			t.Errorf("Record %d: expected protein %v, got %v",
				i, want.Analysis.Nutrition.Protein.Value, g.Analysis.Nutrition.Protein.Value)
		}
		if g.Timestamp != want.Timestamp {
			t.Errorf("Record %d: expected timestamp %d, got %d", i, want.Timestamp, g.Timestamp)
		}
	}
}

func TestRoundTripItems(t *testing.T) {
	rec := record("a", time.Date(2024, 2, 2, 9, 15, 0, 0, time.Local), "Breakfast", 400, 12)
	rec.Analysis.Items = []nutrition.Item{
		{Name: "eggs", Quantity: "2", EstimatedWeight: "100g"},
		{Name: "toast", Quantity: "1 slice"},
	}

	got, err := Parse(Marshal([]meal.Record{rec}))
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if len(got) != 1 || len(got[0].Analysis.Items) != 2 {
		t.Fatalf("Expected 2 items after round-trip, got %+v", got)
	}
	if got[0].Analysis.Items[0].Name != "eggs" {
		t.Errorf("Expected first item 'eggs', got '%s'", got[0].Analysis.Items[0].Name)
	}
}

func TestZeroSerializesAsEmptyCell(t *testing.T) {
	rec := record("a", time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), "Water", 0, 0)
	text := Marshal([]meal.Record{rec})

	line := strings.Split(strings.TrimSpace(text), "\n")[1]
	if strings.Contains(line, ",0,") {
		t.Errorf("Expected zero numerics to serialize as empty cells, got: %s", line)
	}

	// Zero and absent are indistinguishable after round-trip; both import as 0.
	got, err := Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if got[0].Analysis.Nutrition.Calories.Value != 0 {
		t.Errorf("Expected calories 0, got %v", got[0].Analysis.Nutrition.Calories.Value)
	}
}

func TestParseLegacyHeader(t *testing.T) {
	header := strings.Join(baseColumns, ",")
	text := header + "\n" +
		`l1,2024-01-01,8:00 AM,manual,"Toast","1 slice",120,4,,,,,,,,,,,,,,,` + "\n"

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("Expected legacy header to be accepted, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got))
	}
	if got[0].Analysis.Nutrition.Calories.Value != 120 {
		t.Errorf("Expected calories 120, got %v", got[0].Analysis.Nutrition.Calories.Value)
	}
	if len(got[0].Analysis.Items) != 0 {
		t.Errorf("Expected no items for legacy rows, got %+v", got[0].Analysis.Items)
	}
}

func TestParseRejectsUnknownHeader(t *testing.T) {
	t.Run("Corrupted", func(t *testing.T) {
		text := Marshal([]meal.Record{
			record("a", time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), "Oatmeal", 350, 10),
		})
		corrupted := strings.Replace(text, "foodName", "mealName", 1)

		if _, err := Parse(corrupted); !errors.Is(err, ErrFormat) {
			t.Fatalf("Expected ErrFormat, got %v", err)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, err := Parse(""); !errors.Is(err, ErrFormat) {
			t.Fatalf("Expected ErrFormat for empty input, got %v", err)
		}
	})
}

func TestParseSkipsBadRows(t *testing.T) {
	good := record("a", time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), "Oatmeal", 350, 10)
	text := Marshal([]meal.Record{good})
	text += `bad,not-a-date,8:00 AM,manual,"X","1",100,,,,,,,,,,,,,,,,""` + "\n"

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("Expected import to survive a bad row, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("Expected only the valid row, got %+v", got)
	}
}

func TestParseBadItemsDegradesToEmpty(t *testing.T) {
	rec := record("a", time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), "Oatmeal", 350, 10)
	rec.Analysis.Items = []nutrition.Item{{Name: "oats"}}
	text := Marshal([]meal.Record{rec})
	text = strings.Replace(text, `[{""name""`, `[{""broken`, 1)

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("Expected bad items cell to keep the row, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got))
	}
	if len(got[0].Analysis.Items) != 0 {
		t.Errorf("Expected items to degrade to empty, got %+v", got[0].Analysis.Items)
	}
}

func TestParseZeroFillsMicronutrients(t *testing.T) {
	rec := record("a", time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), "Oatmeal", 350, 10)
	got, err := Parse(Marshal([]meal.Record{rec}))
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}

	n := got[0].Analysis.Nutrition
	for _, key := range vitaminKeys {
		a, ok := n.Vitamins[key]
		if !ok {
			t.Errorf("Expected vitamin '%s' to be zero-filled", key)
			continue
		}
		if a.Unit == "" {
			t.Errorf("Expected vitamin '%s' to carry a unit", key)
		}
	}
	for _, key := range mineralKeys {
		if _, ok := n.Minerals[key]; !ok {
			t.Errorf("Expected mineral '%s' to be zero-filled", key)
		}
	}
}
