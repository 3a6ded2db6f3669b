package linking_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/matching"
	"github.com/MrJamesThe3rd/partylink/internal/party"
	"github.com/MrJamesThe3rd/partylink/internal/reconcile"
	"github.com/MrJamesThe3rd/partylink/internal/similarity"
	"github.com/MrJamesThe3rd/partylink/internal/storage/memory"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type env struct {
	store *memory.Store
	links *linkage.Service
	orch  *linking.Orchestrator

	ahmed *party.Party
	sara  *party.Party
	omar  *party.Party

	ahmedCheck *instrument.Instrument
	saraPlan   *instrument.Instrument
	omarCheck  *instrument.Instrument
	strayCheck *instrument.Instrument
}

func newEnv(t *testing.T, opts ...func(*linking.Deps)) *env {
	t.Helper()

	ctx := context.Background()
	s := memory.New()
	links := linkage.NewService(s, s, s)

	deps := linking.Deps{
		Parties:     s,
		Instruments: s,
		Links:       links,
		Suggestions: s,
		Matcher:     matching.NewEngine(similarity.NewScorer(nil), matching.DefaultConfig()),
		Reconciler:  reconcile.NewEngine(s, links, s, reconcile.WithClock(clock)),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e := &env{
		store: s,
		links: links,
		orch:  linking.New(deps, linking.WithLogger(quietLogger()), linking.WithClock(clock), linking.WithWorkers(3)),
		ahmed: &party.Party{Type: party.TypeCustomer, Name: "Ahmed Hassan", CreatedAt: fixedNow.Add(-3 * time.Hour)},
		sara:  &party.Party{Type: party.TypeSupplier, Name: "Sara Ali", Phone: "+20 101 234 567", CreatedAt: fixedNow.Add(-2 * time.Hour)},
		omar:  &party.Party{Type: party.TypeEmployee, Name: "Omar Khaled", CreatedAt: fixedNow.Add(-time.Hour)},
	}

	for _, p := range []*party.Party{e.ahmed, e.sara, e.omar} {
		p.Aggregate.RiskTier = party.RiskLow
		require.NoError(t, s.CreateParty(ctx, p))
	}

	e.ahmedCheck = &instrument.Instrument{
		Kind: instrument.KindCheck, Status: instrument.StatusPending, Amount: 150000,
		DueDate: fixedNow.Add(72 * time.Hour), RawOwnerName: "Ahmed Hasan",
	}
	e.saraPlan = &instrument.Instrument{
		Kind: instrument.KindInstallment, Status: instrument.StatusOverdue, Amount: 40000,
		RawOwnerName: "Sara Ali", RawOwnerPhone: "0101234567",
	}
	e.omarCheck = &instrument.Instrument{
		Kind: instrument.KindCheck, Status: instrument.StatusPending, Amount: 9000,
		DueDate: fixedNow.Add(24 * time.Hour), RawOwnerName: "Omar Khalil",
	}
	e.strayCheck = &instrument.Instrument{
		Kind: instrument.KindCheck, Status: instrument.StatusPending, Amount: 100,
		RawOwnerName: "Zzz Qqq",
	}

	for _, inst := range []*instrument.Instrument{e.ahmedCheck, e.saraPlan, e.omarCheck, e.strayCheck} {
		require.NoError(t, s.CreateInstrument(ctx, inst))
	}

	return e
}

func (e *env) aggregate(t *testing.T, p *party.Party) party.Aggregate {
	t.Helper()

	got, err := e.store.GetParty(context.Background(), p.ID, p.Type)
	require.NoError(t, err)

	return got.Aggregate
}

func TestOrchestrator_RunAll(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	res, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 2, res.Linked)
	assert.Equal(t, 1, res.HighConfidence)
	assert.Equal(t, 1, res.LowConfidence)
	assert.Equal(t, 1, res.Suggested)
	assert.Equal(t, 1, res.Unresolved)
	assert.Zero(t, res.SkippedAlreadyLinked)
	assert.Equal(t, 2, res.Reconciled)
	assert.Empty(t, res.Errors)

	rec, err := e.links.FindByInstrument(ctx, e.ahmedCheck.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, e.ahmed.ID, rec.PartyID)
	assert.Equal(t, 64, rec.Confidence)
	assert.True(t, rec.AutoLinked)
	assert.Equal(t, linking.DefaultActor, rec.LinkedBy)
	assert.Equal(t, linkage.RelationshipSales, rec.Relationship)

	rec, err = e.links.FindByInstrument(ctx, e.saraPlan.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, e.sara.ID, rec.PartyID)
	assert.Equal(t, 100, rec.Confidence)
	assert.Equal(t, linkage.RelationshipPurchases, rec.Relationship)

	assert.Equal(t, party.Aggregate{
		TotalInstruments: 1,
		TotalAmount:      150000,
		PendingCount:     1,
		PendingAmount:    150000,
		RiskTier:         party.RiskLow,
	}, e.aggregate(t, e.ahmed))

	saraAgg := e.aggregate(t, e.sara)
	assert.Equal(t, 1, saraAgg.OverdueCount)
	assert.Equal(t, party.RiskHigh, saraAgg.RiskTier)

	sugg, err := e.orch.Suggestions(ctx, e.omarCheck.ID)
	require.NoError(t, err)
	require.NotEmpty(t, sugg)
	assert.Equal(t, 1, sugg[0].Rank)
	assert.Equal(t, e.omar.ID, sugg[0].PartyID)
	assert.Equal(t, 57, sugg[0].Confidence)
	assert.Contains(t, sugg[0].Reasons, matching.ReasonModerate)
	assert.Equal(t, fixedNow, sugg[0].ComputedAt)

	sugg, err = e.orch.Suggestions(ctx, e.strayCheck.ID)
	require.NoError(t, err)
	assert.Empty(t, sugg)
}

func TestOrchestrator_RepeatedBatchesDoNotDoubleCount(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	before := e.aggregate(t, e.ahmed)

	res, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, res.SkippedAlreadyLinked)
	assert.Equal(t, 2, res.Processed)
	assert.Zero(t, res.Linked)
	assert.Zero(t, res.Reconciled)
	assert.Equal(t, before, e.aggregate(t, e.ahmed))

	links, err := e.links.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestOrchestrator_DuplicateInstrumentInBatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	parties, err := e.store.ListParties(ctx, party.ListFilter{})
	require.NoError(t, err)

	res, err := e.orch.RunBatch(ctx, []*instrument.Instrument{e.ahmedCheck, e.ahmedCheck}, parties)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Linked)
	assert.Equal(t, 1, e.aggregate(t, e.ahmed).TotalInstruments)
}

func TestOrchestrator_ManualOverrideWins(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	rec, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, e.omar.ID, party.TypeEmployee, "clerk")
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Confidence)
	assert.False(t, rec.AutoLinked)
	assert.Equal(t, "clerk", rec.LinkedBy)
	assert.Equal(t, linkage.RelationshipSalary, rec.Relationship)

	assert.Equal(t, party.Aggregate{RiskTier: party.RiskLow}, e.aggregate(t, e.ahmed))
	assert.Equal(t, 1, e.aggregate(t, e.omar).TotalInstruments)

	_, err = e.orch.RunAll(ctx)
	require.NoError(t, err)

	cur, err := e.links.FindByInstrument(ctx, e.ahmedCheck.ID)
	require.NoError(t, err)
	assert.Equal(t, e.omar.ID, cur.PartyID)
}

func TestOrchestrator_ManualLinkClearsSuggestions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	_, err = e.orch.ManualLink(ctx, e.omarCheck.ID, e.omar.ID, party.TypeEmployee, "")
	require.NoError(t, err)

	sugg, err := e.orch.Suggestions(ctx, e.omarCheck.ID)
	require.NoError(t, err)
	assert.Empty(t, sugg)

	rec, err := e.links.FindByInstrument(ctx, e.omarCheck.ID)
	require.NoError(t, err)
	assert.Equal(t, linking.DefaultActor, rec.LinkedBy)
}

func TestOrchestrator_ManualLinkErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	t.Run("MissingParty", func(t *testing.T) {
		_, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, uuid.New(), party.TypeCustomer, "clerk")
		assert.ErrorIs(t, err, party.ErrNotFound)

		cur, err := e.links.FindByInstrument(ctx, e.ahmedCheck.ID)
		require.NoError(t, err)
		assert.Equal(t, e.ahmed.ID, cur.PartyID)
	})

	t.Run("WrongPartyType", func(t *testing.T) {
		_, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, e.ahmed.ID, party.TypeSupplier, "clerk")
		assert.ErrorIs(t, err, party.ErrNotFound)
	})

	t.Run("MissingInstrument", func(t *testing.T) {
		_, err := e.orch.ManualLink(ctx, uuid.New(), e.ahmed.ID, party.TypeCustomer, "clerk")
		assert.ErrorIs(t, err, instrument.ErrNotFound)
	})

	t.Run("InvalidType", func(t *testing.T) {
		_, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, e.ahmed.ID, party.Type("vendor"), "clerk")
		assert.ErrorIs(t, err, linkage.ErrInvalidInput)
	})
}

func TestOrchestrator_UnlinkIsSymmetric(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, e.ahmed.ID, party.TypeCustomer, "clerk")
	require.NoError(t, err)
	assert.Equal(t, 1, e.aggregate(t, e.ahmed).TotalInstruments)

	removed, err := e.orch.Unlink(ctx, e.ahmedCheck.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, party.Aggregate{RiskTier: party.RiskLow}, e.aggregate(t, e.ahmed))

	removed, err = e.orch.Unlink(ctx, e.ahmedCheck.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestOrchestrator_ReconcileAfterStatusChange(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.RunAll(ctx)
	require.NoError(t, err)
	require.Equal(t, party.RiskHigh, e.aggregate(t, e.sara).RiskTier)

	require.NoError(t, e.store.UpdateStatus(ctx, e.saraPlan.ID, instrument.StatusCompleted))

	agg, err := e.orch.Reconcile(ctx, e.sara.ID, party.TypeSupplier)
	require.NoError(t, err)
	assert.Equal(t, party.RiskLow, agg.RiskTier)
	assert.Equal(t, 1, agg.SettledCount)

	_, err = e.orch.Reconcile(ctx, uuid.New(), party.TypeSupplier)
	assert.ErrorIs(t, err, party.ErrNotFound)
}

func TestOrchestrator_SuggestionsUnknownInstrument(t *testing.T) {
	e := newEnv(t)

	_, err := e.orch.Suggestions(context.Background(), uuid.New())
	assert.ErrorIs(t, err, instrument.ErrNotFound)
}

func TestOrchestrator_Stats(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.orch.RunAll(ctx)
	require.NoError(t, err)

	_, err = e.orch.ManualLink(ctx, e.omarCheck.ID, e.omar.ID, party.TypeEmployee, "clerk")
	require.NoError(t, err)

	st, err := e.orch.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, st.Instruments)
	assert.Equal(t, 3, st.Linked)
	assert.Equal(t, 1, st.Unlinked)
	assert.Equal(t, 2, st.AutoLinked)
	assert.Equal(t, 1, st.ManualLinked)
	assert.Equal(t, 1, st.HighConfidence)
	assert.Equal(t, 1, st.LowConfidence)
	assert.Equal(t, linking.TypeStats{Links: 1, Amount: 150000}, st.ByType[party.TypeCustomer])
	assert.Equal(t, linking.TypeStats{Links: 1, Amount: 40000}, st.ByType[party.TypeSupplier])
	assert.Equal(t, linking.TypeStats{Links: 1, Amount: 9000}, st.ByType[party.TypeEmployee])
}

type failingReconciler struct{}

func (failingReconciler) Reconcile(context.Context, uuid.UUID, party.Type) (party.Aggregate, error) {
	return party.Aggregate{}, party.ErrNotFound
}

func TestOrchestrator_ReconcileFailureDoesNotAbortBatch(t *testing.T) {
	e := newEnv(t, func(d *linking.Deps) { d.Reconciler = failingReconciler{} })

	res, err := e.orch.RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Linked)
	assert.Zero(t, res.Reconciled)
	require.Len(t, res.Errors, 2)

	for _, ie := range res.Errors {
		assert.Equal(t, "reconcile", ie.Op)
		assert.ErrorIs(t, ie, party.ErrNotFound)
	}
}

func TestOrchestrator_SuggestionFailureIsRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	sugg := linking.NewMockSuggestionRepository(ctrl)

	sugg.EXPECT().ClearSuggestions(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sugg.EXPECT().SaveSuggestions(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	e := newEnv(t, func(d *linking.Deps) { d.Suggestions = sugg })

	res, err := e.orch.RunAll(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Suggested)
	assert.Equal(t, 2, res.Linked)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "suggest", res.Errors[0].Op)
	assert.Equal(t, e.omarCheck.ID, res.Errors[0].InstrumentID)
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	e := newEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.orch.RunAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelAfterUpsert cancels the batch context once the first link is stored.
type cancelAfterUpsert struct {
	linking.Links
	cancel context.CancelFunc
}

func (c cancelAfterUpsert) Upsert(ctx context.Context, p linkage.LinkParams) (*linkage.Record, *linkage.Record, error) {
	cur, replaced, err := c.Links.Upsert(ctx, p)
	c.cancel()

	return cur, replaced, err
}

func TestOrchestrator_CancelledMidBatchStillReconciles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := newEnv(t, func(d *linking.Deps) { d.Links = cancelAfterUpsert{Links: d.Links, cancel: cancel} })

	res, err := e.orch.RunAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)

	assert.Equal(t, 1, res.Linked)
	assert.Equal(t, 1, res.Reconciled)
	assert.Empty(t, res.Errors)

	agg := e.aggregate(t, e.ahmed)
	assert.Equal(t, 1, agg.TotalInstruments)
	assert.Equal(t, int64(150000), agg.TotalAmount)
	assert.Zero(t, e.aggregate(t, e.sara).TotalInstruments)

	res, err = e.orch.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.SkippedAlreadyLinked)
	assert.Equal(t, 1, e.aggregate(t, e.ahmed).TotalInstruments)
	assert.Equal(t, 1, e.aggregate(t, e.sara).TotalInstruments)
}

var errReconcile = errors.New("reconcile failed")

// partyFailingReconciler fails for a single party and delegates the rest.
type partyFailingReconciler struct {
	next linking.Reconciler
	fail uuid.UUID
}

func (r *partyFailingReconciler) Reconcile(ctx context.Context, id uuid.UUID, t party.Type) (party.Aggregate, error) {
	if id == r.fail {
		return party.Aggregate{}, errReconcile
	}

	return r.next.Reconcile(ctx, id, t)
}

func TestOrchestrator_ManualLinkReconcilesPreviousOwnerOnFailure(t *testing.T) {
	ctx := context.Background()
	rc := &partyFailingReconciler{}

	e := newEnv(t, func(d *linking.Deps) {
		rc.next = d.Reconciler
		d.Reconciler = rc
	})

	_, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, e.ahmed.ID, party.TypeCustomer, "clerk")
	require.NoError(t, err)
	require.Equal(t, 1, e.aggregate(t, e.ahmed).TotalInstruments)

	rc.fail = e.omar.ID

	rec, err := e.orch.ManualLink(ctx, e.ahmedCheck.ID, e.omar.ID, party.TypeEmployee, "clerk")
	require.ErrorIs(t, err, errReconcile)
	require.NotNil(t, rec)
	assert.Equal(t, e.omar.ID, rec.PartyID)

	assert.Equal(t, party.Aggregate{RiskTier: party.RiskLow}, e.aggregate(t, e.ahmed))
}

func TestOrchestrator_ConcurrentBatchesKeepOneOwner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	for range 30 {
		inst := &instrument.Instrument{
			Kind: instrument.KindInstallment, Status: instrument.StatusActive, Amount: 10,
			RawOwnerName: "Sara Ali",
		}
		require.NoError(t, e.store.CreateInstrument(ctx, inst))
	}

	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := e.orch.RunAll(ctx)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	agg := e.aggregate(t, e.sara)
	assert.Equal(t, 31, agg.TotalInstruments)

	links, err := e.links.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 32)
}
