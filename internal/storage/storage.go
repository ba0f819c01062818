package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a slot has never been written.
var ErrNotFound = errors.New("slot not found")

// Store is the persistence port for named slots. Each slot holds one
// serialized collection; every write replaces the whole value.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// FileStore keeps each slot in its own file under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates a new FileStore and ensures the base directory exists.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) slotPath(key string) string {
	return filepath.Join(s.basePath, key+".json")
}

// Read returns the current contents of a slot.
func (s *FileStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.slotPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the contents of a slot.
func (s *FileStore) Write(key string, data []byte) error {
	if err := os.WriteFile(s.slotPath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Keys lists every slot currently present in the store.
func (s *FileStore) Keys() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		keys = append(keys, strings.TrimSuffix(filepath.Base(match), ".json"))
	}
	return keys, nil
}
