package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/partylink/internal/normalize"
	"github.com/MrJamesThe3rd/partylink/internal/party"
	"github.com/MrJamesThe3rd/partylink/internal/similarity"
)

func TestScorer_Score(t *testing.T) {
	tests := []struct {
		name      string
		raw       similarity.Raw
		party     party.Party
		wantName  float64
		wantPhone int
		wantTotal int
	}{
		{
			name:      "OneCharacterEdit",
			raw:       similarity.Raw{Name: "Ahmed Hassan"},
			party:     party.Party{Name: "Ahmed Hasan", Phone: "0100000000"},
			wantName:  100 * 11.0 / 12.0,
			wantPhone: 0,
			wantTotal: 64,
		},
		{
			name:      "ExactNameAndPhoneSuffix",
			raw:       similarity.Raw{Name: "Sara Ali", Phone: "0101234567"},
			party:     party.Party{Name: "Sara Ali", Phone: "+20 101 234 567"},
			wantName:  100,
			wantPhone: 100,
			wantTotal: 100,
		},
		{
			name:      "CaseAndSpacingIgnored",
			raw:       similarity.Raw{Name: "  SARA   ali "},
			party:     party.Party{Name: "Sara Ali"},
			wantName:  100,
			wantPhone: 0,
			wantTotal: 70,
		},
		{
			name:      "PhoneOnly",
			raw:       similarity.Raw{Phone: "0101234567"},
			party:     party.Party{Name: "Sara Ali", Phone: "101234567"},
			wantName:  0,
			wantPhone: 100,
			wantTotal: 30,
		},
		{
			name:      "EmptyPhonesNeverMatch",
			raw:       similarity.Raw{Name: "Omar"},
			party:     party.Party{Name: "Mona"},
			wantName:  25,
			wantPhone: 0,
			wantTotal: 18,
		},
		{
			name:      "CompletelyDifferent",
			raw:       similarity.Raw{Name: "abc", Phone: "111"},
			party:     party.Party{Name: "xyz", Phone: "222"},
			wantName:  0,
			wantPhone: 0,
			wantTotal: 0,
		},
	}

	scorer := similarity.NewScorer(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.raw, &tt.party)

			assert.InDelta(t, tt.wantName, got.Name, 0.01)
			assert.Equal(t, tt.wantPhone, got.Phone)
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, similarity.NameSimilarity("", "x"))
	assert.Equal(t, 0.0, similarity.NameSimilarity("x", ""))
	assert.Equal(t, 100.0, similarity.NameSimilarity("محمد", "محمد"))
	// Runes, not bytes: one substituted Arabic letter out of four.
	assert.Equal(t, 75.0, similarity.NameSimilarity("سارة", "سارا"))
}

func TestBreakdown_Flags(t *testing.T) {
	b := similarity.Breakdown{Name: 100, Phone: 100, Total: 100}
	assert.True(t, b.ExactName())
	assert.True(t, b.PhoneMatch())

	b = similarity.Breakdown{Name: 91.6, Phone: 0, Total: 64}
	assert.False(t, b.ExactName())
	assert.False(t, b.PhoneMatch())
}

func TestScorer_Identifies(t *testing.T) {
	scorer := similarity.NewScorer(normalize.NewNameNormalizer(language.Turkish))

	tests := []struct {
		name string
		raw  similarity.Raw
		want bool
	}{
		{name: "Empty", raw: similarity.Raw{}, want: false},
		{name: "Whitespace", raw: similarity.Raw{Name: " \t ", Phone: " - "}, want: false},
		{name: "Name", raw: similarity.Raw{Name: " İpek "}, want: true},
		{name: "ArabicDigitsPhone", raw: similarity.Raw{Phone: "٠١٠١٢٣٤٥٦٧"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Identifies(tt.raw))
		})
	}
}
