// Package memory is an in-process implementation of every registry the linking engine talks to.
// It backs the offline CLI and the behavioural tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

type partyKey struct {
	id uuid.UUID
	t  party.Type
}

// Store keeps everything in maps guarded by one RWMutex. Values are copied on the way in and out.
type Store struct {
	mu sync.RWMutex

	parties     map[partyKey]*party.Party
	partyOrder  []partyKey
	instruments map[uuid.UUID]*instrument.Instrument
	instOrder   []uuid.UUID
	links       map[uuid.UUID]*linkage.Record
	suggestions map[uuid.UUID][]linking.Suggestion
}

func New() *Store {
	return &Store{
		parties:     make(map[partyKey]*party.Party),
		instruments: make(map[uuid.UUID]*instrument.Instrument),
		links:       make(map[uuid.UUID]*linkage.Record),
		suggestions: make(map[uuid.UUID][]linking.Suggestion),
	}
}

func (s *Store) CreateParty(_ context.Context, p *party.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	k := partyKey{id: p.ID, t: p.Type}
	if _, ok := s.parties[k]; !ok {
		s.partyOrder = append(s.partyOrder, k)
	}

	cp := *p
	s.parties[k] = &cp

	return nil
}

func (s *Store) GetParty(_ context.Context, id uuid.UUID, t party.Type) (*party.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parties[partyKey{id: id, t: t}]
	if !ok {
		return nil, party.ErrNotFound
	}

	cp := *p

	return &cp, nil
}

func (s *Store) ListParties(_ context.Context, filter party.ListFilter) ([]*party.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*party.Party

	for _, k := range s.partyOrder {
		if filter.Type != nil && k.t != *filter.Type {
			continue
		}

		cp := *s.parties[k]
		out = append(out, &cp)
	}

	return out, nil
}

func (s *Store) UpdateAggregate(_ context.Context, id uuid.UUID, t party.Type, agg party.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parties[partyKey{id: id, t: t}]
	if !ok {
		return party.ErrNotFound
	}

	p.Aggregate = agg

	return nil
}

func (s *Store) CreateInstrument(_ context.Context, inst *instrument.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}

	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = time.Now()
	}

	if _, ok := s.instruments[inst.ID]; !ok {
		s.instOrder = append(s.instOrder, inst.ID)
	}

	cp := *inst
	s.instruments[inst.ID] = &cp

	return nil
}

func (s *Store) GetInstrument(_ context.Context, id uuid.UUID) (*instrument.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.instruments[id]
	if !ok {
		return nil, instrument.ErrNotFound
	}

	cp := *inst

	return &cp, nil
}

func (s *Store) GetInstruments(_ context.Context, ids []uuid.UUID) ([]*instrument.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*instrument.Instrument, 0, len(ids))

	for _, id := range ids {
		inst, ok := s.instruments[id]
		if !ok {
			continue
		}

		cp := *inst
		out = append(out, &cp)
	}

	return out, nil
}

func (s *Store) ListInstruments(_ context.Context, filter instrument.ListFilter) ([]*instrument.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*instrument.Instrument

	for _, id := range s.instOrder {
		inst := s.instruments[id]
		if filter.Kind != nil && inst.Kind != *filter.Kind {
			continue
		}

		cp := *inst
		out = append(out, &cp)
	}

	return out, nil
}

func (s *Store) UpdateStatus(_ context.Context, id uuid.UUID, status instrument.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instruments[id]
	if !ok {
		return instrument.ErrNotFound
	}

	inst.Status = status

	return nil
}

func (s *Store) UpsertLink(_ context.Context, rec *linkage.Record) (*linkage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.links[rec.InstrumentID]

	cp := *rec
	s.links[rec.InstrumentID] = &cp

	return prev, nil
}

func (s *Store) DeleteLink(_ context.Context, instrumentID uuid.UUID) (*linkage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.links[instrumentID]
	if !ok {
		return nil, nil
	}

	delete(s.links, instrumentID)

	return prev, nil
}

func (s *Store) FindLinkByInstrument(_ context.Context, instrumentID uuid.UUID) (*linkage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.links[instrumentID]
	if !ok {
		return nil, nil
	}

	cp := *rec

	return &cp, nil
}

func (s *Store) FindLinksByParty(_ context.Context, partyID uuid.UUID, partyType party.Type) ([]*linkage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*linkage.Record

	for _, id := range s.instOrder {
		rec, ok := s.links[id]
		if !ok || rec.PartyID != partyID || rec.PartyType != partyType {
			continue
		}

		cp := *rec
		out = append(out, &cp)
	}

	return out, nil
}

func (s *Store) ListLinks(_ context.Context) ([]*linkage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*linkage.Record, 0, len(s.links))

	for _, id := range s.instOrder {
		rec, ok := s.links[id]
		if !ok {
			continue
		}

		cp := *rec
		out = append(out, &cp)
	}

	return out, nil
}

func (s *Store) SaveSuggestions(_ context.Context, instrumentID uuid.UUID, sugg []linking.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(sugg) == 0 {
		delete(s.suggestions, instrumentID)
		return nil
	}

	s.suggestions[instrumentID] = cloneSuggestions(sugg)

	return nil
}

func (s *Store) ListSuggestions(_ context.Context, instrumentID uuid.UUID) ([]linking.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSuggestions(s.suggestions[instrumentID]), nil
}

func (s *Store) ClearSuggestions(_ context.Context, instrumentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.suggestions, instrumentID)

	return nil
}

func cloneSuggestions(in []linking.Suggestion) []linking.Suggestion {
	if in == nil {
		return nil
	}

	out := make([]linking.Suggestion, len(in))
	for i, sg := range in {
		sg.Reasons = slices.Clone(sg.Reasons)
		out[i] = sg
	}

	return out
}
