// Package similarity scores how likely a raw owner name/phone pair identifies a party.
package similarity

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/MrJamesThe3rd/partylink/internal/normalize"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

const (
	DefaultNameWeight  = 0.7
	DefaultPhoneWeight = 0.3
)

// Raw is the owner as entered on an instrument.
type Raw struct {
	Name  string
	Phone string
}

// Breakdown holds the individual components of a score.
type Breakdown struct {
	Name  float64 // 0..100, edit-distance similarity of normalized names
	Phone int     // 0 or 100, phone suffixes are either equal or not
	Total int     // weighted, rounded and clamped to 0..100
}

// ExactName reports whether the normalized names matched exactly.
func (b Breakdown) ExactName() bool { return b.Name == 100 }

// PhoneMatch reports whether the phone suffixes matched.
func (b Breakdown) PhoneMatch() bool { return b.Phone == 100 }

type Scorer struct {
	NameWeight  float64
	PhoneWeight float64
	names       *normalize.NameNormalizer
}

// NewScorer returns a scorer using the default weights and the given name normalizer.
// A nil normalizer falls back to script-neutral normalization.
func NewScorer(names *normalize.NameNormalizer) *Scorer {
	return &Scorer{
		NameWeight:  DefaultNameWeight,
		PhoneWeight: DefaultPhoneWeight,
		names:       names,
	}
}

// Score compares raw against p.
func (s *Scorer) Score(raw Raw, p *party.Party) Breakdown {
	b := Breakdown{
		Name:  NameSimilarity(s.normalizeName(raw.Name), s.normalizeName(p.Name)),
		Phone: phoneComponent(raw.Phone, p.Phone),
	}

	total := math.Round(s.NameWeight*b.Name + s.PhoneWeight*float64(b.Phone))
	b.Total = int(clamp(total))

	return b
}

// Identifies reports whether raw carries a name or phone that survives normalization.
func (s *Scorer) Identifies(raw Raw) bool {
	return s.normalizeName(raw.Name) != "" || normalize.Phone(raw.Phone) != ""
}

func (s *Scorer) normalizeName(name string) string {
	if s.names == nil {
		return normalize.Name(name)
	}

	return s.names.Normalize(name)
}

// NameSimilarity returns 100*(maxLen-distance)/maxLen over runes of two already normalized names.
func NameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return 100
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	dist := levenshtein.ComputeDistance(a, b)

	return clamp(100 * float64(maxLen-dist) / float64(maxLen))
}

func phoneComponent(a, b string) int {
	na, nb := normalize.Phone(a), normalize.Phone(b)
	if na == "" || na != nb {
		return 0
	}

	return 100
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
