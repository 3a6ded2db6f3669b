package matching

import (
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Outcome is the decision reached for one instrument.
type Outcome int

const (
	OutcomeNoMatch Outcome = iota
	OutcomeAccepted
	OutcomeSuggested
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeSuggested:
		return "suggested"
	default:
		return "no_match"
	}
}

// Reason tags attached to candidates.
const (
	ReasonStrong    = "strong match"
	ReasonModerate  = "moderate match"
	ReasonWeak      = "weak match"
	ReasonExactName = "exact name"
	ReasonPhone     = "phone match"
)

// Config holds the score thresholds of the engine.
type Config struct {
	// AutoAccept is the lowest score persisted without review.
	AutoAccept int
	// HighConfidence splits accepted matches for reporting only.
	HighConfidence int
	// ModerateFloor separates "moderate" from "weak" suggestions.
	ModerateFloor int
	// SuggestionFloor is the lowest score worth showing to a human.
	SuggestionFloor int
	MaxSuggestions  int
}

func DefaultConfig() Config {
	return Config{
		AutoAccept:      60,
		HighConfidence:  80,
		ModerateFloor:   45,
		SuggestionFloor: 30,
		MaxSuggestions:  5,
	}
}

// Candidate is a party scored against one instrument.
type Candidate struct {
	Party      *party.Party
	Confidence int
	Reasons    []string
}

// Result is the outcome of matching one instrument.
// Match is set only for OutcomeAccepted, Suggestions only for OutcomeSuggested.
type Result struct {
	Outcome        Outcome
	Match          *Candidate
	HighConfidence bool
	Suggestions    []Candidate
}
