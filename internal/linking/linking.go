// Package linking drives batch matching, manual overrides and reconciliation of party aggregates.
package linking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Suggestion is one ranked candidate kept for an instrument that could not be linked automatically.
type Suggestion struct {
	InstrumentID uuid.UUID
	Rank         int
	PartyID      uuid.UUID
	PartyType    party.Type
	PartyName    string
	Confidence   int
	Reasons      []string
	ComputedAt   time.Time
}

//go:generate mockgen -source=linking.go -destination=suggestion_mock.go -package=linking
type SuggestionRepository interface {
	// SaveSuggestions replaces every suggestion of the instrument with s.
	SaveSuggestions(ctx context.Context, instrumentID uuid.UUID, s []Suggestion) error
	ListSuggestions(ctx context.Context, instrumentID uuid.UUID) ([]Suggestion, error)
	ClearSuggestions(ctx context.Context, instrumentID uuid.UUID) error
}

// ItemError records a failure that did not stop the batch.
type ItemError struct {
	InstrumentID uuid.UUID
	PartyID      uuid.UUID
	Op           string
	Err          error
}

func (e ItemError) Error() string {
	if e.PartyID != uuid.Nil {
		return fmt.Sprintf("%s party %s: %v", e.Op, e.PartyID, e.Err)
	}

	return fmt.Sprintf("%s instrument %s: %v", e.Op, e.InstrumentID, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// BatchResult summarizes one batch run.
type BatchResult struct {
	// Processed counts instruments that went through matching; skipped ones are not included.
	Processed            int
	Linked               int
	HighConfidence       int
	LowConfidence        int
	Suggested            int
	Unresolved           int
	SkippedAlreadyLinked int
	Reconciled           int
	Errors               []ItemError
}

// TypeStats counts the links held by one party type.
type TypeStats struct {
	Links  int
	Amount int64
}

// Stats is a snapshot of the linking state.
type Stats struct {
	Instruments    int
	Linked         int
	Unlinked       int
	AutoLinked     int
	ManualLinked   int
	HighConfidence int
	LowConfidence  int
	ByType         map[party.Type]TypeStats
}
