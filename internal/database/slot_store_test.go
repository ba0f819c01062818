package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nutrisnap/internal/storage"
)

func TestSlotStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "database_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	db, err := NewDB(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store := NewSlotStore(db)

	t.Run("Read-NotFound", func(t *testing.T) {
		_, err := store.Read("missing_slot")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected storage.ErrNotFound, got %v", err)
		}
	})

	t.Run("WriteAndRead", func(t *testing.T) {
		if err := store.Write("meals", []byte(`[{"id":"abc"}]`)); err != nil {
			t.Fatalf("Failed to write slot: %v", err)
		}
		data, err := store.Read("meals")
		if err != nil {
			t.Fatalf("Failed to read slot: %v", err)
		}
		if string(data) != `[{"id":"abc"}]` {
			t.Errorf("Unexpected slot contents: %s", data)
		}
	})

	t.Run("WriteReplaces", func(t *testing.T) {
		if err := store.Write("meals", []byte("[]")); err != nil {
			t.Fatalf("Failed to overwrite slot: %v", err)
		}
		data, err := store.Read("meals")
		if err != nil {
			t.Fatalf("Failed to read slot: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("Expected '[]', got '%s'", data)
		}
	})

	t.Run("Keys", func(t *testing.T) {
		if err := store.Write("goals", []byte("{}")); err != nil {
			t.Fatalf("Failed to write slot: %v", err)
		}
		keys, err := store.Keys()
		if err != nil {
			t.Fatalf("Failed to list keys: %v", err)
		}
		if len(keys) != 2 {
			t.Fatalf("Expected 2 keys, got %d: %v", len(keys), keys)
		}
	})
}
