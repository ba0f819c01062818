// Package llm talks to the remote nutrition analysis service.
package llm

import (
	"context"

	"nutrisnap/internal/nutrition"
)

// Analyzer estimates nutrition for a described or photographed meal. A
// failed call is recoverable (the caller may retry); an unrecognizable
// input surfaces as nutrition.ErrUnrecognized.
type Analyzer interface {
	AnalyzeText(ctx context.Context, description, quantity string) (nutrition.Analysis, error)
	AnalyzeImage(ctx context.Context, jpeg []byte) (nutrition.Analysis, error)
	// AnalyzeImageWithHint re-analyzes an image with a user-supplied
	// correction about the items in it.
	AnalyzeImageWithHint(ctx context.Context, jpeg []byte, hint string) (nutrition.Analysis, error)
	Close() error
}
