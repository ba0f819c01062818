package nutrition

import (
	"bytes"
	"encoding/json"
)

// Defaults applied when the analysis omits descriptive fields.
const (
	DefaultFoodName = "Unknown Food"
	DefaultQuantity = "1 serving"
)

// LooseAmount tolerates the two encodings the service uses for a measured
// value: a {value, unit} object or a bare number. Anything else is treated
// as absent rather than failing the whole response.
type LooseAmount struct {
	Amount
}

// UnmarshalJSON never returns an error; unusable values simply stay zero.
func (a *LooseAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '{' {
		var obj Amount
		if err := json.Unmarshal(data, &obj); err == nil {
			a.Amount = obj
		}
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		a.Amount = Amount{Value: num}
	}
	return nil
}

// RawCarbohydrates accepts either the nested {total, fiber, sugar} object
// or a plain amount standing in for the total.
type RawCarbohydrates struct {
	Total LooseAmount
	Fiber LooseAmount
	Sugar LooseAmount
}

func (c *RawCarbohydrates) UnmarshalJSON(data []byte) error {
	var nested struct {
		Total LooseAmount `json:"total"`
		Fiber LooseAmount `json:"fiber"`
		Sugar LooseAmount `json:"sugar"`
	}
	if err := json.Unmarshal(data, &nested); err == nil {
		c.Total, c.Fiber, c.Sugar = nested.Total, nested.Fiber, nested.Sugar
	}
	if c.Total.Value == 0 {
		var whole LooseAmount
		_ = json.Unmarshal(data, &whole)
		if whole.Value != 0 {
			c.Total = whole
		}
	}
	return nil
}

// RawFat accepts either the nested {total, saturated} object or a plain
// amount standing in for the total.
type RawFat struct {
	Total     LooseAmount
	Saturated LooseAmount
}

func (f *RawFat) UnmarshalJSON(data []byte) error {
	var nested struct {
		Total     LooseAmount `json:"total"`
		Saturated LooseAmount `json:"saturated"`
	}
	if err := json.Unmarshal(data, &nested); err == nil {
		f.Total, f.Saturated = nested.Total, nested.Saturated
	}
	if f.Total.Value == 0 {
		var whole LooseAmount
		_ = json.Unmarshal(data, &whole)
		if whole.Value != 0 {
			f.Total = whole
		}
	}
	return nil
}

// RawMacros is the nested macronutrients block.
type RawMacros struct {
	Protein       LooseAmount      `json:"protein"`
	Carbohydrates RawCarbohydrates `json:"carbohydrates"`
	Fat           RawFat           `json:"fat"`
}

// RawMicros is the nested micronutrients block.
type RawMicros struct {
	Vitamins map[string]LooseAmount `json:"vitamins"`
	Minerals map[string]LooseAmount `json:"minerals"`
}

// RawNutrition mirrors both response shapes the service has been observed
// to produce: the nested macronutrients/micronutrients structure and the
// flatter legacy one with direct keys.
type RawNutrition struct {
	Calories       LooseAmount `json:"calories"`
	Macronutrients *RawMacros  `json:"macronutrients"`
	Micronutrients *RawMicros  `json:"micronutrients"`

	// Legacy flat keys.
	Protein  LooseAmount            `json:"protein"`
	Carbs    LooseAmount            `json:"carbs"`
	Fat      LooseAmount            `json:"fat"`
	Fiber    LooseAmount            `json:"fiber"`
	Sugar    LooseAmount            `json:"sugar"`
	Vitamins map[string]LooseAmount `json:"vitamins"`
	Minerals map[string]LooseAmount `json:"minerals"`
}

// RawAnalysis is the top-level wire shape of an analysis response.
type RawAnalysis struct {
	FoodName  string       `json:"foodName"`
	Quantity  string       `json:"quantity"`
	Items     []Item       `json:"items"`
	Nutrition RawNutrition `json:"nutrition"`
	Error     string       `json:"error"`
}

// coreRule populates one canonical field. The nested extractor runs first;
// the flat legacy extractor is consulted only while the value is still zero.
// The rules are applied in a fixed order so the precedence is an explicit,
// testable policy rather than scattered presence checks.
type coreRule struct {
	unit   string
	nested func(*RawNutrition) Amount
	flat   func(*RawNutrition) Amount
	assign func(*Data, Amount)
}

func macros(n *RawNutrition) *RawMacros {
	if n.Macronutrients == nil {
		return &RawMacros{}
	}
	return n.Macronutrients
}

var coreRules = []coreRule{
	{
		unit:   "kcal",
		nested: func(n *RawNutrition) Amount { return n.Calories.Amount },
		flat:   func(n *RawNutrition) Amount { return n.Calories.Amount },
		assign: func(d *Data, a Amount) { d.Calories = a },
	},
	{
		unit:   "g",
		nested: func(n *RawNutrition) Amount { return macros(n).Protein.Amount },
		flat:   func(n *RawNutrition) Amount { return n.Protein.Amount },
		assign: func(d *Data, a Amount) { d.Protein = a },
	},
	{
		unit:   "g",
		nested: func(n *RawNutrition) Amount { return macros(n).Carbohydrates.Total.Amount },
		flat:   func(n *RawNutrition) Amount { return n.Carbs.Amount },
		assign: func(d *Data, a Amount) { d.Carbs = a },
	},
	{
		unit:   "g",
		nested: func(n *RawNutrition) Amount { return macros(n).Fat.Total.Amount },
		flat:   func(n *RawNutrition) Amount { return n.Fat.Amount },
		assign: func(d *Data, a Amount) { d.Fat = a },
	},
	{
		unit:   "g",
		nested: func(n *RawNutrition) Amount { return macros(n).Carbohydrates.Fiber.Amount },
		flat:   func(n *RawNutrition) Amount { return n.Fiber.Amount },
		assign: func(d *Data, a Amount) { d.Fiber = a },
	},
	{
		unit:   "g",
		nested: func(n *RawNutrition) Amount { return macros(n).Carbohydrates.Sugar.Amount },
		flat:   func(n *RawNutrition) Amount { return n.Sugar.Amount },
		assign: func(d *Data, a Amount) { d.Sugar = a },
	},
}

// Normalize converts a raw analysis payload into the canonical Analysis
// shape. Pure function; it always returns a fully populated result, with
// descriptive defaults for missing fields and zero-valued amounts for core
// nutrients that have no source data.
func Normalize(raw RawAnalysis) Analysis {
	out := Analysis{
		FoodName: raw.FoodName,
		Quantity: raw.Quantity,
		Items:    raw.Items,
		Nutrition: Data{
			Vitamins: map[string]Amount{},
			Minerals: map[string]Amount{},
		},
	}
	if out.FoodName == "" {
		out.FoodName = DefaultFoodName
	}
	if out.Quantity == "" {
		out.Quantity = DefaultQuantity
	}
	if out.Items == nil {
		out.Items = []Item{}
	}

	n := raw.Nutrition
	for _, rule := range coreRules {
		v := rule.nested(&n)
		if v.Value == 0 {
			if f := rule.flat(&n); f.Value != 0 {
				v = f
			}
		}
		if v.Value < 0 {
			v.Value = 0
		}
		if v.Unit == "" {
			v.Unit = rule.unit
		}
		rule.assign(&out.Nutrition, v)
	}

	vitamins := n.Vitamins
	minerals := n.Minerals
	if n.Micronutrients != nil {
		if len(n.Micronutrients.Vitamins) > 0 {
			vitamins = n.Micronutrients.Vitamins
		}
		if len(n.Micronutrients.Minerals) > 0 {
			minerals = n.Micronutrients.Minerals
		}
	}
	for key, a := range vitamins {
		out.Nutrition.Vitamins[key] = clamp(a.Amount)
	}
	for key, a := range minerals {
		out.Nutrition.Minerals[key] = clamp(a.Amount)
	}

	return out
}

func clamp(a Amount) Amount {
	if a.Value < 0 {
		a.Value = 0
	}
	return a
}
