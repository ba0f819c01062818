// Package meal owns the persisted meal collection.
package meal

import (
	"time"

	"nutrisnap/internal/nutrition"
)

// Type records how an entry was captured.
type Type string

const (
	TypeManual Type = "manual"
	TypeImage  Type = "image"
)

// UserInput preserves what the user originally supplied. It is opaque to
// every aggregation and export path.
type UserInput struct {
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	ImageRef    string `json:"imageRef,omitempty"`
}

// Record is one logged meal. ID and Timestamp are assigned at save time and
// never change afterwards; records are immutable except for whole-record
// deletion.
type Record struct {
	ID        string             `json:"id"`
	Timestamp int64              `json:"timestamp"` // milliseconds since epoch
	Type      Type               `json:"type"`
	UserInput UserInput          `json:"userInput"`
	Analysis  nutrition.Analysis `json:"geminiAnalysis"`
}

// Draft is a record before the store assigns identity.
type Draft struct {
	Type      Type
	UserInput UserInput
	Analysis  nutrition.Analysis
}

// Time returns the record timestamp in the local time zone.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// DayStart truncates t to local midnight. All day bucketing in the module
// goes through this, so a calendar day is always the half-open interval
// [DayStart(t), DayStart(t)+24h).
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
