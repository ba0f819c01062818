package llm

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"nutrisnap/internal/metrics"
	"nutrisnap/internal/nutrition"
)

//go:embed text_prompt.md
var textPrompt string

//go:embed image_prompt.md
var imagePrompt string

const modelName = "gemini-2.0-flash"

// geminiAnalyzer is an Analyzer backed by the Google Gemini API.
type geminiAnalyzer struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	metrics *metrics.Store
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer. The metrics store is
// optional; when present every call records an execution metric.
func NewGeminiAnalyzer(ctx context.Context, apiKey string, store *metrics.Store) (Analyzer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &geminiAnalyzer{client: client, model: model, metrics: store}, nil
}

func (a *geminiAnalyzer) AnalyzeText(ctx context.Context, description, quantity string) (nutrition.Analysis, error) {
	prompt := strings.ReplaceAll(textPrompt, "{{description}}", description)
	prompt = strings.ReplaceAll(prompt, "{{quantity}}", quantity)

	return a.generate(ctx, "text", genai.Text(prompt))
}

func (a *geminiAnalyzer) AnalyzeImage(ctx context.Context, jpeg []byte) (nutrition.Analysis, error) {
	return a.generate(ctx, "image", genai.Text(imagePrompt), genai.ImageData("jpeg", jpeg))
}

func (a *geminiAnalyzer) AnalyzeImageWithHint(ctx context.Context, jpeg []byte, hint string) (nutrition.Analysis, error) {
	prompt := imagePrompt + fmt.Sprintf(
		"\nA user has provided the following correction or clarification about the food items in the image:\n%q\nPlease use this information to improve the breakdown of items and their quantities, and update the nutrition analysis accordingly.\n",
		hint,
	)
	return a.generate(ctx, "image", genai.Text(prompt), genai.ImageData("jpeg", jpeg))
}

func (a *geminiAnalyzer) generate(ctx context.Context, kind string, parts ...genai.Part) (nutrition.Analysis, error) {
	start := time.Now()
	resp, err := a.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nutrition.Analysis{}, fmt.Errorf("failed to generate content: %w", err)
	}
	a.record(kind, resp, time.Since(start))

	text, err := responseText(resp)
	if err != nil {
		return nutrition.Analysis{}, err
	}
	return nutrition.ParseAnalysis(text)
}

func (a *geminiAnalyzer) record(kind string, resp *genai.GenerateContentResponse, latency time.Duration) {
	if a.metrics == nil {
		return
	}

	m := metrics.ExecutionMetric{
		Kind:      kind,
		Model:     modelName,
		LatencyMS: latency.Milliseconds(),
	}
	if resp.UsageMetadata != nil {
		m.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		m.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	if err := a.metrics.Record(m); err != nil {
		log.Printf("Warning: failed to record execution metric: %v", err)
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}
	return string(text), nil
}

// Close closes the underlying Gemini client.
func (a *geminiAnalyzer) Close() error {
	return a.client.Close()
}
