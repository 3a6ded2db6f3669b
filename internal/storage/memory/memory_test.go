package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/party"
	"github.com/MrJamesThe3rd/partylink/internal/storage/memory"
)

var (
	_ party.Repository             = (*memory.Store)(nil)
	_ instrument.Repository        = (*memory.Store)(nil)
	_ linkage.Repository           = (*memory.Store)(nil)
	_ linking.SuggestionRepository = (*memory.Store)(nil)
)

func TestStore_Parties(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	a := &party.Party{Type: party.TypeSupplier, Name: "A"}
	b := &party.Party{Type: party.TypeCustomer, Name: "B"}
	c := &party.Party{Type: party.TypeSupplier, Name: "C"}

	for _, p := range []*party.Party{a, b, c} {
		require.NoError(t, s.CreateParty(ctx, p))
		assert.NotEqual(t, uuid.Nil, p.ID)
	}

	t.Run("RegistrationOrder", func(t *testing.T) {
		all, err := s.ListParties(ctx, party.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Name, all[1].Name, all[2].Name})
	})

	t.Run("FilterByType", func(t *testing.T) {
		supplier := party.TypeSupplier
		got, err := s.ListParties(ctx, party.ListFilter{Type: &supplier})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "C", got[1].Name)
	})

	t.Run("GetWrongType", func(t *testing.T) {
		_, err := s.GetParty(ctx, a.ID, party.TypeCustomer)
		assert.ErrorIs(t, err, party.ErrNotFound)
	})

	t.Run("UpdateAggregate", func(t *testing.T) {
		agg := party.Aggregate{TotalInstruments: 2, TotalAmount: 500, RiskTier: party.RiskMedium}
		require.NoError(t, s.UpdateAggregate(ctx, a.ID, a.Type, agg))

		got, err := s.GetParty(ctx, a.ID, a.Type)
		require.NoError(t, err)
		assert.Equal(t, agg, got.Aggregate)
	})

	t.Run("UpdateAggregateMissing", func(t *testing.T) {
		err := s.UpdateAggregate(ctx, uuid.New(), party.TypeCustomer, party.Aggregate{})
		assert.ErrorIs(t, err, party.ErrNotFound)
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		got, err := s.GetParty(ctx, b.ID, b.Type)
		require.NoError(t, err)
		got.Name = "changed"

		again, err := s.GetParty(ctx, b.ID, b.Type)
		require.NoError(t, err)
		assert.Equal(t, "B", again.Name)
	})
}

func TestStore_Links(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	inst := &instrument.Instrument{Kind: instrument.KindCheck, Status: instrument.StatusPending, Amount: 100}
	require.NoError(t, s.CreateInstrument(ctx, inst))

	p1, p2 := uuid.New(), uuid.New()

	prev, err := s.UpsertLink(ctx, &linkage.Record{ID: uuid.New(), InstrumentID: inst.ID, PartyID: p1, PartyType: party.TypeCustomer})
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = s.UpsertLink(ctx, &linkage.Record{ID: uuid.New(), InstrumentID: inst.ID, PartyID: p2, PartyType: party.TypeCustomer})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, p1, prev.PartyID)

	links, err := s.ListLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	byOld, err := s.FindLinksByParty(ctx, p1, party.TypeCustomer)
	require.NoError(t, err)
	assert.Empty(t, byOld)

	removed, err := s.DeleteLink(ctx, inst.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, p2, removed.PartyID)

	removed, err = s.DeleteLink(ctx, inst.ID)
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestStore_GetInstrumentsOmitsMissing(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	inst := &instrument.Instrument{Kind: instrument.KindInstallment, Status: instrument.StatusActive}
	require.NoError(t, s.CreateInstrument(ctx, inst))

	got, err := s.GetInstruments(ctx, []uuid.UUID{uuid.New(), inst.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inst.ID, got[0].ID)
}

func TestStore_Suggestions(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	id := uuid.New()

	require.NoError(t, s.SaveSuggestions(ctx, id, []linking.Suggestion{
		{InstrumentID: id, Rank: 1, Confidence: 55, Reasons: []string{"moderate match"}},
	}))

	got, err := s.ListSuggestions(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got[0].Reasons[0] = "mutated"

	again, err := s.ListSuggestions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "moderate match", again[0].Reasons[0])

	require.NoError(t, s.ClearSuggestions(ctx, id))

	got, err = s.ListSuggestions(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)
}
