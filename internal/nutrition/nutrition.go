// Package nutrition defines the canonical nutrition schema and the
// normalizer that converts the analysis service's loosely-shaped responses
// into it.
package nutrition

// Amount is a single measured quantity.
type Amount struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Data is the canonical nutrition payload every other component consumes.
// The six core fields are always populated, so summation code never has to
// branch on missing values. Vitamins and minerals only carry the keys the
// analysis actually reported.
type Data struct {
	Calories Amount `json:"calories"`
	Protein  Amount `json:"protein"`
	Carbs    Amount `json:"carbs"`
	Fat      Amount `json:"fat"`
	Fiber    Amount `json:"fiber"`
	Sugar    Amount `json:"sugar"`

	Vitamins map[string]Amount `json:"vitamins"`
	Minerals map[string]Amount `json:"minerals"`
}

// Item is one recognized component of a meal. Descriptive only; items do
// not participate in nutrition math.
type Item struct {
	Name            string `json:"name"`
	Quantity        string `json:"quantity"`
	EstimatedWeight string `json:"estimatedWeight,omitempty"`
}

// Analysis is the normalized result of one nutrition-analysis call.
type Analysis struct {
	FoodName  string `json:"foodName"`
	Quantity  string `json:"quantity"`
	Items     []Item `json:"items"`
	Nutrition Data   `json:"nutrition"`
}
