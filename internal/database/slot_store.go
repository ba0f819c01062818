package database

import (
	"database/sql"
	"fmt"
	"time"

	"nutrisnap/internal/storage"
)

// SlotStore persists named slots in the slots table. It satisfies
// storage.Store so the meal and goal stores can run on SQLite instead of
// loose JSON files.
type SlotStore struct {
	db *sql.DB
}

// NewSlotStore creates a SlotStore over an initialized database.
func NewSlotStore(d *DB) *SlotStore {
	return &SlotStore{db: d.SQL}
}

// Read returns the current contents of a slot.
func (s *SlotStore) Read(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return value, nil
}

// Write replaces the contents of a slot.
func (s *SlotStore) Write(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Keys lists every slot currently present.
func (s *SlotStore) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM slots ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan slot key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
