package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognized is returned when the analysis service reports it could
// not identify food in the input. Callers should ask the user for a better
// description or photo rather than retrying blindly.
var ErrUnrecognized = errors.New("unrecognized food input")

// ParseAnalysis decodes a raw analysis-service response into a normalized
// Analysis. It strips markdown code fences, retries a truncated object with
// a closing brace appended, and surfaces the service's structured
// {"error": ...} payload as ErrUnrecognized.
func ParseAnalysis(text string) (Analysis, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var raw RawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		// Long responses occasionally arrive truncated just before the
		// final closing brace.
		if retryErr := json.Unmarshal([]byte(cleaned+"}"), &raw); retryErr != nil {
			return Analysis{}, fmt.Errorf("failed to parse analysis response: %w", err)
		}
	}

	if raw.Error != "" {
		return Analysis{}, fmt.Errorf("%w: %s", ErrUnrecognized, raw.Error)
	}

	return Normalize(raw), nil
}
