package meal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"nutrisnap/internal/storage"
)

// Slot holds the persisted meal collection, one JSON-serialized sequence.
const Slot = "nutrisnap_meals"

// Store owns the persisted meal collection over an injected storage port.
// Reads that fail degrade to an empty collection; write failures propagate
// to the caller. The store follows the app's single-writer execution model
// and is not safe for concurrent use.
type Store struct {
	slot      storage.Store
	observers []func()

	now   func() time.Time
	newID func() string
}

// NewStore creates a meal store on top of slot.
func NewStore(slot storage.Store) *Store {
	return &Store{
		slot:  slot,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// All returns every stored meal in append order. A missing or corrupt slot
// reads as an empty collection.
func (s *Store) All() []Record {
	data, err := s.slot.Read(Slot)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to read meal slot: %v", err)
		}
		return nil
	}

	var meals []Record
	if err := json.Unmarshal(data, &meals); err != nil {
		log.Printf("Warning: corrupt meal slot, treating as empty: %v", err)
		return nil
	}
	return meals
}

// Save assigns a fresh id and the current timestamp to the draft, appends
// it to the collection and returns the stored record.
func (s *Store) Save(d Draft) (Record, error) {
	rec := Record{
		ID:        s.newID(),
		Timestamp: s.now().UnixMilli(),
		Type:      d.Type,
		UserInput: d.UserInput,
		Analysis:  d.Analysis,
	}

	meals := append(s.All(), rec)
	if err := s.write(meals); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the record with the given id. Unknown ids are a no-op and
// leave the collection untouched.
func (s *Store) Delete(id string) error {
	meals := s.All()
	kept := make([]Record, 0, len(meals))
	for _, m := range meals {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(meals) {
		return nil
	}
	return s.write(kept)
}

// ByDate returns the meals whose timestamp falls inside the calendar day
// of t, local midnight to local midnight.
func (s *Store) ByDate(t time.Time) []Record {
	start := DayStart(t)
	end := start.AddDate(0, 0, 1)

	var out []Record
	for _, m := range s.All() {
		ts := m.Time()
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, m)
		}
	}
	return out
}

// ImportRecords appends recs to the collection in a single write. Ids that
// collide with an already-stored record (or are empty) are regenerated, so
// an import never overwrites existing data. Returns the number of records
// imported and the resulting collection size, and notifies observers on
// success.
func (s *Store) ImportRecords(recs []Record) (imported, total int, err error) {
	meals := s.All()
	seen := make(map[string]struct{}, len(meals))
	for _, m := range meals {
		seen[m.ID] = struct{}{}
	}

	for _, r := range recs {
		if _, dup := seen[r.ID]; dup || r.ID == "" {
			r.ID = s.newID()
		}
		seen[r.ID] = struct{}{}
		meals = append(meals, r)
	}

	if err := s.write(meals); err != nil {
		return 0, 0, err
	}
	s.notify()
	return len(recs), len(meals), nil
}

// OnChanged registers a callback fired after a bulk import replaces the
// collection, so other views know to re-read the store. Callbacks run
// synchronously and carry no payload.
func (s *Store) OnChanged(fn func()) {
	s.observers = append(s.observers, fn)
}

func (s *Store) notify() {
	for _, fn := range s.observers {
		fn()
	}
}

func (s *Store) write(meals []Record) error {
	data, err := json.Marshal(meals)
	if err != nil {
		return fmt.Errorf("failed to marshal meal collection: %w", err)
	}
	if err := s.slot.Write(Slot, data); err != nil {
		return fmt.Errorf("failed to write meal collection: %w", err)
	}
	return nil
}
