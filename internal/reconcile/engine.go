// Package reconcile recomputes a party's aggregate block from the instruments linked to it.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

type Parties interface {
	GetParty(ctx context.Context, id uuid.UUID, t party.Type) (*party.Party, error)
	UpdateAggregate(ctx context.Context, id uuid.UUID, t party.Type, agg party.Aggregate) error
}

type Links interface {
	FindByParty(ctx context.Context, partyID uuid.UUID, partyType party.Type) ([]*linkage.Record, error)
}

type Instruments interface {
	GetInstruments(ctx context.Context, ids []uuid.UUID) ([]*instrument.Instrument, error)
}

type Engine struct {
	parties     Parties
	links       Links
	instruments Instruments
	policy      RiskPolicy
	now         func() time.Time
}

type Option func(*Engine)

// WithClock sets the time source used to decide whether a pending check is overdue.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithRiskPolicy(p RiskPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

func NewEngine(parties Parties, links Links, instruments Instruments, opts ...Option) *Engine {
	e := &Engine{
		parties:     parties,
		links:       links,
		instruments: instruments,
		policy:      DefaultRiskPolicy(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reconcile recomputes the aggregate block of a party from scratch and stores it as a whole.
// A missing party yields party.ErrNotFound before anything is written.
func (e *Engine) Reconcile(ctx context.Context, partyID uuid.UUID, partyType party.Type) (party.Aggregate, error) {
	if _, err := e.parties.GetParty(ctx, partyID, partyType); err != nil {
		return party.Aggregate{}, fmt.Errorf("getting %s %s: %w", partyType, partyID, err)
	}

	links, err := e.links.FindByParty(ctx, partyID, partyType)
	if err != nil {
		return party.Aggregate{}, fmt.Errorf("finding links: %w", err)
	}

	ids := make([]uuid.UUID, len(links))
	for i, l := range links {
		ids[i] = l.InstrumentID
	}

	var insts []*instrument.Instrument

	if len(ids) > 0 {
		insts, err = e.instruments.GetInstruments(ctx, ids)
		if err != nil {
			return party.Aggregate{}, fmt.Errorf("getting linked instruments: %w", err)
		}
	}

	agg := Compute(insts, e.now(), e.policy)

	if err := e.parties.UpdateAggregate(ctx, partyID, partyType, agg); err != nil {
		return party.Aggregate{}, fmt.Errorf("updating aggregate: %w", err)
	}

	return agg, nil
}
