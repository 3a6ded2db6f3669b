package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/lock"
	"github.com/MrJamesThe3rd/partylink/internal/matching"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

const (
	DefaultWorkers = 4
	DefaultActor   = "system"
)

type Parties interface {
	ListParties(ctx context.Context, filter party.ListFilter) ([]*party.Party, error)
}

type Instruments interface {
	GetInstrument(ctx context.Context, id uuid.UUID) (*instrument.Instrument, error)
	ListInstruments(ctx context.Context, filter instrument.ListFilter) ([]*instrument.Instrument, error)
}

// Links is the linkage store as seen by the orchestrator.
type Links interface {
	Upsert(ctx context.Context, p linkage.LinkParams) (current, replaced *linkage.Record, err error)
	Remove(ctx context.Context, instrumentID uuid.UUID) (*linkage.Record, bool, error)
	FindByInstrument(ctx context.Context, instrumentID uuid.UUID) (*linkage.Record, error)
	List(ctx context.Context) ([]*linkage.Record, error)
}

type Matcher interface {
	Match(inst *instrument.Instrument, candidates []*party.Party) matching.Result
}

type Reconciler interface {
	Reconcile(ctx context.Context, partyID uuid.UUID, partyType party.Type) (party.Aggregate, error)
}

// Deps are the collaborators of an Orchestrator. All fields are required.
type Deps struct {
	Parties     Parties
	Instruments Instruments
	Links       Links
	Suggestions SuggestionRepository
	Matcher     Matcher
	Reconciler  Reconciler
}

// Orchestrator is the single writer of links and aggregates. Every write
// operation runs under one process-wide mutex and under per-party locks.
type Orchestrator struct {
	deps Deps

	locker         lock.Locker
	log            *slog.Logger
	workers        int
	actor          string
	highConfidence int
	now            func() time.Time

	mu sync.Mutex
}

type Option func(*Orchestrator)

// WithLocker replaces the in-process party locker, e.g. with lock.NewRedis.
func WithLocker(l lock.Locker) Option {
	return func(o *Orchestrator) { o.locker = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithWorkers bounds how many instruments are matched concurrently.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithActor sets the LinkedBy value of automatic links.
func WithActor(actor string) Option {
	return func(o *Orchestrator) {
		if actor != "" {
			o.actor = actor
		}
	}
}

// WithHighConfidence sets the score from which a link counts as high confidence.
func WithHighConfidence(score int) Option {
	return func(o *Orchestrator) { o.highConfidence = score }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:           deps,
		locker:         lock.NewLocal(),
		log:            slog.Default(),
		workers:        DefaultWorkers,
		actor:          DefaultActor,
		highConfidence: matching.DefaultConfig().HighConfidence,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func partyLockKey(id uuid.UUID, t party.Type) string {
	return fmt.Sprintf("party:%s:%s", t, id)
}

type partyRef struct {
	id uuid.UUID
	t  party.Type
}

// RunAll runs a batch over every registered instrument against every registered party.
func (o *Orchestrator) RunAll(ctx context.Context) (*BatchResult, error) {
	insts, err := o.deps.Instruments.ListInstruments(ctx, instrument.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}

	parties, err := o.deps.Parties.ListParties(ctx, party.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}

	return o.RunBatch(ctx, insts, parties)
}

// RunBatch links every unlinked instrument it can, records suggestions for
// the rest and reconciles each affected party once at the end. Failures on
// single items are collected in the result. A context cancelled after matching
// stops further writes; the partial result is returned with the context error.
func (o *Orchestrator) RunBatch(ctx context.Context, insts []*instrument.Instrument, parties []*party.Party) (*BatchResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	res := &BatchResult{}

	pending := make([]*instrument.Instrument, 0, len(insts))
	seen := make(map[uuid.UUID]struct{}, len(insts))

	for _, inst := range insts {
		if _, dup := seen[inst.ID]; dup {
			continue
		}

		seen[inst.ID] = struct{}{}

		rec, err := o.deps.Links.FindByInstrument(ctx, inst.ID)
		if err != nil {
			o.itemError(res, ItemError{InstrumentID: inst.ID, Op: "lookup", Err: err})
			continue
		}

		if rec != nil {
			res.SkippedAlreadyLinked++
			continue
		}

		pending = append(pending, inst)
	}

	results, err := o.matchAll(ctx, pending, parties)
	if err != nil {
		return nil, err
	}

	res.Processed = len(pending)

	var affected []partyRef

	touched := make(map[partyRef]struct{})
	touch := func(r partyRef) {
		if _, ok := touched[r]; ok {
			return
		}

		touched[r] = struct{}{}
		affected = append(affected, r)
	}

	var cancelled error

	for i, inst := range pending {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}

		r := results[i]

		switch r.Outcome {
		case matching.OutcomeAccepted:
			replaced, err := o.persistMatch(ctx, inst, r.Match)
			if err != nil {
				o.itemError(res, ItemError{InstrumentID: inst.ID, Op: "link", Err: err})
				continue
			}

			res.Linked++
			if r.HighConfidence {
				res.HighConfidence++
			} else {
				res.LowConfidence++
			}

			touch(partyRef{id: r.Match.Party.ID, t: r.Match.Party.Type})

			if replaced != nil {
				touch(partyRef{id: replaced.PartyID, t: replaced.PartyType})
			}
		case matching.OutcomeSuggested:
			if err := o.deps.Suggestions.SaveSuggestions(ctx, inst.ID, o.toSuggestions(inst.ID, r.Suggestions)); err != nil {
				o.itemError(res, ItemError{InstrumentID: inst.ID, Op: "suggest", Err: err})
				continue
			}

			res.Suggested++
		default:
			if err := o.deps.Suggestions.ClearSuggestions(ctx, inst.ID); err != nil {
				o.itemError(res, ItemError{InstrumentID: inst.ID, Op: "suggest", Err: err})
			}

			res.Unresolved++
		}
	}

	// Links already written must be reflected in their owners' aggregates
	// even when the run was cancelled halfway.
	rctx := ctx
	if cancelled != nil {
		rctx = context.WithoutCancel(ctx)
	}

	for _, p := range affected {
		if _, err := o.reconcileLocked(rctx, p); err != nil {
			o.itemError(res, ItemError{PartyID: p.id, Op: "reconcile", Err: err})
			continue
		}

		res.Reconciled++
	}

	o.log.Info("linking batch finished",
		"processed", res.Processed,
		"linked", res.Linked,
		"high_confidence", res.HighConfidence,
		"low_confidence", res.LowConfidence,
		"suggested", res.Suggested,
		"unresolved", res.Unresolved,
		"skipped", res.SkippedAlreadyLinked,
		"reconciled", res.Reconciled,
		"errors", len(res.Errors),
		"cancelled", cancelled != nil,
	)

	return res, cancelled
}

func (o *Orchestrator) matchAll(ctx context.Context, insts []*instrument.Instrument, parties []*party.Party) ([]matching.Result, error) {
	results := make([]matching.Result, len(insts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, inst := range insts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = o.deps.Matcher.Match(inst, parties)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("matching instruments: %w", err)
	}

	return results, nil
}

func (o *Orchestrator) persistMatch(ctx context.Context, inst *instrument.Instrument, c *matching.Candidate) (*linkage.Record, error) {
	held, err := lock.AcquireAll(ctx, o.locker, partyLockKey(c.Party.ID, c.Party.Type))
	if err != nil {
		return nil, err
	}
	defer o.release(ctx, held)

	_, replaced, err := o.deps.Links.Upsert(ctx, linkage.LinkParams{
		InstrumentID: inst.ID,
		PartyID:      c.Party.ID,
		PartyType:    c.Party.Type,
		Confidence:   c.Confidence,
		AutoLinked:   true,
		LinkedBy:     o.actor,
	})
	if err != nil {
		return nil, err
	}

	if err := o.deps.Suggestions.ClearSuggestions(ctx, inst.ID); err != nil {
		o.log.Warn("failed to clear suggestions", "instrument_id", inst.ID, "error", err)
	}

	return replaced, nil
}

func (o *Orchestrator) toSuggestions(instrumentID uuid.UUID, cands []matching.Candidate) []Suggestion {
	computedAt := o.now().UTC()

	out := make([]Suggestion, len(cands))
	for i, c := range cands {
		out[i] = Suggestion{
			InstrumentID: instrumentID,
			Rank:         i + 1,
			PartyID:      c.Party.ID,
			PartyType:    c.Party.Type,
			PartyName:    c.Party.Name,
			Confidence:   c.Confidence,
			Reasons:      c.Reasons,
			ComputedAt:   computedAt,
		}
	}

	return out
}

// ManualLink assigns an instrument to a party with full confidence, overriding
// any previous link. Both the new owner and the previous one are reconciled.
// A reconciliation failure is returned together with the persisted record.
func (o *Orchestrator) ManualLink(ctx context.Context, instrumentID, partyID uuid.UUID, partyType party.Type, linkedBy string) (*linkage.Record, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if linkedBy == "" {
		linkedBy = o.actor
	}

	keys := []string{partyLockKey(partyID, partyType)}

	prev, err := o.deps.Links.FindByInstrument(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("finding current link: %w", err)
	}

	if prev != nil {
		keys = append(keys, partyLockKey(prev.PartyID, prev.PartyType))
	}

	held, err := lock.AcquireAll(ctx, o.locker, keys...)
	if err != nil {
		return nil, err
	}
	defer o.release(ctx, held)

	rec, replaced, err := o.deps.Links.Upsert(ctx, linkage.LinkParams{
		InstrumentID: instrumentID,
		PartyID:      partyID,
		PartyType:    partyType,
		Confidence:   100,
		AutoLinked:   false,
		LinkedBy:     linkedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("linking instrument: %w", err)
	}

	if err := o.deps.Suggestions.ClearSuggestions(ctx, instrumentID); err != nil {
		o.log.Warn("failed to clear suggestions", "instrument_id", instrumentID, "error", err)
	}

	var errs []error

	if _, err := o.deps.Reconciler.Reconcile(ctx, partyID, partyType); err != nil {
		errs = append(errs, fmt.Errorf("reconciling %s %s: %w", partyType, partyID, err))
	}

	if replaced != nil && (replaced.PartyID != partyID || replaced.PartyType != partyType) {
		if _, err := o.deps.Reconciler.Reconcile(ctx, replaced.PartyID, replaced.PartyType); err != nil {
			errs = append(errs, fmt.Errorf("reconciling previous owner %s: %w", replaced.PartyID, err))
		}
	}

	if len(errs) > 0 {
		return rec, errors.Join(errs...)
	}

	o.log.Info("instrument linked manually",
		"instrument_id", instrumentID,
		"party_id", partyID,
		"party_type", partyType,
		"linked_by", linkedBy,
	)

	return rec, nil
}

// Unlink removes the link of an instrument and reconciles its former owner.
// It reports false without error when the instrument was not linked.
func (o *Orchestrator) Unlink(ctx context.Context, instrumentID uuid.UUID) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur, err := o.deps.Links.FindByInstrument(ctx, instrumentID)
	if err != nil {
		return false, fmt.Errorf("finding current link: %w", err)
	}

	if cur == nil {
		return false, nil
	}

	held, err := lock.AcquireAll(ctx, o.locker, partyLockKey(cur.PartyID, cur.PartyType))
	if err != nil {
		return false, err
	}
	defer o.release(ctx, held)

	removed, ok, err := o.deps.Links.Remove(ctx, instrumentID)
	if err != nil {
		return false, fmt.Errorf("removing link: %w", err)
	}

	if !ok {
		return false, nil
	}

	if _, err := o.deps.Reconciler.Reconcile(ctx, removed.PartyID, removed.PartyType); err != nil {
		return true, fmt.Errorf("reconciling %s %s: %w", removed.PartyType, removed.PartyID, err)
	}

	return true, nil
}

// Reconcile re-runs reconciliation for one party, e.g. after an upstream status change.
func (o *Orchestrator) Reconcile(ctx context.Context, partyID uuid.UUID, partyType party.Type) (party.Aggregate, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.reconcileLocked(ctx, partyRef{id: partyID, t: partyType})
}

func (o *Orchestrator) reconcileLocked(ctx context.Context, p partyRef) (party.Aggregate, error) {
	held, err := lock.AcquireAll(ctx, o.locker, partyLockKey(p.id, p.t))
	if err != nil {
		return party.Aggregate{}, err
	}
	defer o.release(ctx, held)

	return o.deps.Reconciler.Reconcile(ctx, p.id, p.t)
}

// Suggestions returns the candidates computed for an instrument by the last batch that saw it.
func (o *Orchestrator) Suggestions(ctx context.Context, instrumentID uuid.UUID) ([]Suggestion, error) {
	if _, err := o.deps.Instruments.GetInstrument(ctx, instrumentID); err != nil {
		return nil, fmt.Errorf("getting instrument %s: %w", instrumentID, err)
	}

	return o.deps.Suggestions.ListSuggestions(ctx, instrumentID)
}

// Stats counts links over all registered instruments.
// Confidence buckets only cover automatic links; manual links always carry 100.
func (o *Orchestrator) Stats(ctx context.Context) (*Stats, error) {
	insts, err := o.deps.Instruments.ListInstruments(ctx, instrument.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}

	links, err := o.deps.Links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}

	amounts := make(map[uuid.UUID]int64, len(insts))
	for _, inst := range insts {
		amounts[inst.ID] = inst.Amount
	}

	st := &Stats{
		Instruments: len(insts),
		ByType:      make(map[party.Type]TypeStats, len(party.Types)),
	}

	for _, l := range links {
		amount, ok := amounts[l.InstrumentID]
		if !ok {
			continue
		}

		st.Linked++

		if l.AutoLinked {
			st.AutoLinked++

			if l.Confidence >= o.highConfidence {
				st.HighConfidence++
			} else {
				st.LowConfidence++
			}
		} else {
			st.ManualLinked++
		}

		ts := st.ByType[l.PartyType]
		ts.Links++
		ts.Amount += amount
		st.ByType[l.PartyType] = ts
	}

	st.Unlinked = st.Instruments - st.Linked

	return st, nil
}

func (o *Orchestrator) itemError(res *BatchResult, e ItemError) {
	o.log.Warn("linking item failed",
		"op", e.Op,
		"instrument_id", e.InstrumentID,
		"party_id", e.PartyID,
		"error", e.Err,
	)

	res.Errors = append(res.Errors, e)
}

func (o *Orchestrator) release(ctx context.Context, l lock.Lock) {
	if err := l.Release(context.WithoutCancel(ctx)); err != nil {
		o.log.Error("failed to release party lock", "error", err)
	}
}
