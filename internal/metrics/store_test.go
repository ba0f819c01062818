package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"nutrisnap/internal/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	dir, err := os.MkdirTemp("", "metrics-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := database.NewDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.SQL.Close() })
	return db
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := NewStore(testDB(t).SQL)

	calls := []ExecutionMetric{
		{Kind: "text", Model: "gemini-2.0-flash", PromptTokens: 120, CompletionTokens: 80, LatencyMS: 900},
		{Kind: "image", Model: "gemini-2.0-flash", PromptTokens: 300, CompletionTokens: 100, LatencyMS: 1500},
	}
	for _, m := range calls {
		if err := store.Record(m); err != nil {
			t.Fatalf("Failed to record metric: %v", err)
		}
	}

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("Failed to get daily usage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}
	day := usage[0]
	if day.TotalExecution != 2 {
		t.Errorf("Expected 2 executions, got %d", day.TotalExecution)
	}
	if day.TotalPrompt != 420 || day.TotalCompletion != 180 {
		t.Errorf("Expected token totals 420/180, got %d/%d", day.TotalPrompt, day.TotalCompletion)
	}
}

func TestCleanup(t *testing.T) {
	store := NewStore(testDB(t).SQL)

	old := ExecutionMetric{
		Kind:      "text",
		Model:     "gemini-2.0-flash",
		Timestamp: time.Now().UTC().AddDate(0, 0, -60),
	}
	recent := ExecutionMetric{Kind: "text", Model: "gemini-2.0-flash"}
	if err := store.Record(old); err != nil {
		t.Fatalf("Failed to record metric: %v", err)
	}
	if err := store.Record(recent); err != nil {
		t.Fatalf("Failed to record metric: %v", err)
	}

	deleted, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Failed to clean up: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted row, got %d", deleted)
	}

	usage, err := store.GetDailyUsage(90)
	if err != nil {
		t.Fatalf("Failed to get daily usage: %v", err)
	}
	total := 0
	for _, day := range usage {
		total += day.TotalExecution
	}
	if total != 1 {
		t.Errorf("Expected 1 remaining execution, got %d", total)
	}
}
