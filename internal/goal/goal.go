// Package goal owns the persisted per-nutrient daily targets.
package goal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"nutrisnap/internal/storage"
)

// Slot holds the persisted goal mapping.
const Slot = "nutrisnap_goals"

// DailyGoals maps a nutrient key to its numeric daily target. The mapping is
// partial; a missing key means no goal is set for that nutrient. Valid keys
// are the six core nutrition fields, any vitamin/mineral key, and the macro
// split percentages proteinPct/carbsPct/fatPct.
type DailyGoals map[string]float64

// Store owns the goal mapping over an injected storage port. Like the meal
// store it degrades read failures to an empty value and propagates write
// failures.
type Store struct {
	slot storage.Store
}

func NewStore(slot storage.Store) *Store {
	return &Store{slot: slot}
}

// Get returns the persisted mapping, or an empty mapping when the slot is
// unset or corrupt.
func (s *Store) Get() DailyGoals {
	data, err := s.slot.Read(Slot)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to read goal slot: %v", err)
		}
		return DailyGoals{}
	}

	var goals DailyGoals
	if err := json.Unmarshal(data, &goals); err != nil {
		log.Printf("Warning: corrupt goal slot, treating as empty: %v", err)
		return DailyGoals{}
	}
	if goals == nil {
		return DailyGoals{}
	}
	return goals
}

// Set merges partial into the stored mapping, overwriting per key. Keys not
// present in partial are untouched.
func (s *Store) Set(partial DailyGoals) error {
	goals := s.Get()
	for k, v := range partial {
		goals[k] = v
	}
	return s.write(goals)
}

// Remove deletes a single key from the stored mapping. Absent keys are a
// no-op that still rewrites the slot.
func (s *Store) Remove(key string) error {
	goals := s.Get()
	delete(goals, key)
	return s.write(goals)
}

func (s *Store) write(goals DailyGoals) error {
	data, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("failed to marshal goals: %w", err)
	}
	if err := s.slot.Write(Slot, data); err != nil {
		return fmt.Errorf("failed to write goals: %w", err)
	}
	return nil
}
