package mealcsv

import "nutrisnap/internal/meal"

// Result is the outcome of a bulk import. Success carries the counts; a
// failure carries a human-readable message instead of an error value so
// presentation code can show it directly.
type Result struct {
	Success  bool
	Imported int
	Total    int
	Error    string
}

// Importer merges parsed CSV rows into a meal store.
type Importer struct {
	meals *meal.Store
}

func NewImporter(meals *meal.Store) *Importer {
	return &Importer{meals: meals}
}

// Import parses text and appends the parsed rows to the store. Structural
// failures (bad header, unreadable input) and write failures yield a
// failure result and leave the store untouched; Import never returns an
// error to its caller.
func (im *Importer) Import(text string) Result {
	recs, err := Parse(text)
	if err != nil {
		return Result{Error: err.Error()}
	}

	imported, total, err := im.meals.ImportRecords(recs)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true, Imported: imported, Total: total}
}
