// Package app composes the stores and the analysis service into the
// operations the CLI exposes.
package app

import (
	"context"
	"fmt"
	"os"

	"nutrisnap/internal/goal"
	"nutrisnap/internal/llm"
	"nutrisnap/internal/meal"
	"nutrisnap/internal/mealcsv"
	"nutrisnap/internal/nutrition"
	"nutrisnap/internal/trends"
)

// App holds the application's dependencies.
type App struct {
	Meals    *meal.Store
	Goals    *goal.Store
	Trends   *trends.Aggregator
	analyzer llm.Analyzer
}

// NewApp creates and initializes a new App instance. The analyzer may be
// nil for commands that never call the analysis service.
func NewApp(meals *meal.Store, goals *goal.Store, analyzer llm.Analyzer) *App {
	return &App{
		Meals:    meals,
		Goals:    goals,
		Trends:   trends.NewAggregator(meals),
		analyzer: analyzer,
	}
}

// LogText analyzes a described meal and saves it.
func (a *App) LogText(ctx context.Context, description, quantity string) (meal.Record, error) {
	analysis, err := a.analyzer.AnalyzeText(ctx, description, quantity)
	if err != nil {
		return meal.Record{}, fmt.Errorf("failed to analyze meal: %w", err)
	}

	return a.Meals.Save(meal.Draft{
		Type:      meal.TypeManual,
		UserInput: meal.UserInput{Description: description, Quantity: quantity},
		Analysis:  analysis,
	})
}

// LogImage analyzes a meal photo and saves it. An optional hint corrects
// the item breakdown.
func (a *App) LogImage(ctx context.Context, imagePath, hint string) (meal.Record, error) {
	jpeg, err := os.ReadFile(imagePath)
	if err != nil {
		return meal.Record{}, fmt.Errorf("failed to read image: %w", err)
	}

	var analysis nutrition.Analysis
	if hint != "" {
		analysis, err = a.analyzer.AnalyzeImageWithHint(ctx, jpeg, hint)
	} else {
		analysis, err = a.analyzer.AnalyzeImage(ctx, jpeg)
	}
	if err != nil {
		return meal.Record{}, fmt.Errorf("failed to analyze image: %w", err)
	}

	return a.Meals.Save(meal.Draft{
		Type:      meal.TypeImage,
		UserInput: meal.UserInput{ImageRef: imagePath},
		Analysis:  analysis,
	})
}

// ExportCSV renders the full meal collection in the current CSV format.
func (a *App) ExportCSV() string {
	return mealcsv.Marshal(a.Meals.All())
}

// ImportCSV merges CSV text into the meal store.
func (a *App) ImportCSV(text string) mealcsv.Result {
	return mealcsv.NewImporter(a.Meals).Import(text)
}
