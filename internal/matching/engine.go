// Package matching ranks candidate parties for an instrument and decides
// whether to link it, suggest owners or leave it unresolved.
package matching

import (
	"cmp"
	"slices"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/party"
	"github.com/MrJamesThe3rd/partylink/internal/similarity"
)

type Scorer interface {
	Score(raw similarity.Raw, p *party.Party) similarity.Breakdown
	Identifies(raw similarity.Raw) bool
}

// Engine decides which party, if any, owns an instrument. It holds no state
// besides its configuration, so the same inputs always give the same Result.
type Engine struct {
	scorer Scorer
	cfg    Config
}

func NewEngine(scorer Scorer, cfg Config) *Engine {
	return &Engine{scorer: scorer, cfg: cfg}
}

type scored struct {
	party     *party.Party
	breakdown similarity.Breakdown
}

// Match scores every candidate regardless of its type and ranks them.
// Ties on score go to the party type with the highest precedence, then to the
// earlier registered party, then to the earlier position in candidates.
func (e *Engine) Match(inst *instrument.Instrument, candidates []*party.Party) Result {
	raw := similarity.Raw{Name: inst.RawOwnerName, Phone: inst.RawOwnerPhone}

	// Nothing to identify the owner by.
	if !e.scorer.Identifies(raw) {
		return Result{Outcome: OutcomeNoMatch}
	}

	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		ranked = append(ranked, scored{party: p, breakdown: e.scorer.Score(raw, p)})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.breakdown.Total, a.breakdown.Total); c != 0 {
			return c
		}

		if c := cmp.Compare(a.party.Type.Precedence(), b.party.Type.Precedence()); c != 0 {
			return c
		}

		return a.party.CreatedAt.Compare(b.party.CreatedAt)
	})

	if len(ranked) == 0 {
		return Result{Outcome: OutcomeNoMatch}
	}

	if best := ranked[0]; best.breakdown.Total >= e.cfg.AutoAccept {
		c := e.candidate(best)

		return Result{
			Outcome:        OutcomeAccepted,
			Match:          &c,
			HighConfidence: c.Confidence >= e.cfg.HighConfidence,
		}
	}

	var suggestions []Candidate

	for _, s := range ranked {
		if s.breakdown.Total < e.cfg.SuggestionFloor || len(suggestions) == e.cfg.MaxSuggestions {
			break
		}

		suggestions = append(suggestions, e.candidate(s))
	}

	if len(suggestions) == 0 {
		return Result{Outcome: OutcomeNoMatch}
	}

	return Result{Outcome: OutcomeSuggested, Suggestions: suggestions}
}

func (e *Engine) candidate(s scored) Candidate {
	reasons := []string{e.strength(s.breakdown.Total)}

	if s.breakdown.ExactName() {
		reasons = append(reasons, ReasonExactName)
	}

	if s.breakdown.PhoneMatch() {
		reasons = append(reasons, ReasonPhone)
	}

	return Candidate{
		Party:      s.party,
		Confidence: s.breakdown.Total,
		Reasons:    reasons,
	}
}

func (e *Engine) strength(score int) string {
	switch {
	case score >= e.cfg.AutoAccept:
		return ReasonStrong
	case score >= e.cfg.ModerateFloor:
		return ReasonModerate
	default:
		return ReasonWeak
	}
}
