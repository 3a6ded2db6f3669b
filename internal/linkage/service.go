package linkage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=linkage
type Repository interface {
	// UpsertLink stores rec as the only record of its instrument and returns the record it replaced, if any.
	UpsertLink(ctx context.Context, rec *Record) (*Record, error)
	// DeleteLink removes the record of an instrument and returns it, or nil when there was none.
	DeleteLink(ctx context.Context, instrumentID uuid.UUID) (*Record, error)
	// FindLinkByInstrument returns nil when the instrument is not linked.
	FindLinkByInstrument(ctx context.Context, instrumentID uuid.UUID) (*Record, error)
	FindLinksByParty(ctx context.Context, partyID uuid.UUID, partyType party.Type) ([]*Record, error)
	ListLinks(ctx context.Context) ([]*Record, error)
}

type InstrumentLookup interface {
	GetInstrument(ctx context.Context, id uuid.UUID) (*instrument.Instrument, error)
}

type PartyLookup interface {
	GetParty(ctx context.Context, id uuid.UUID, t party.Type) (*party.Party, error)
}

type Service struct {
	repo        Repository
	instruments InstrumentLookup
	parties     PartyLookup
}

func NewService(repo Repository, instruments InstrumentLookup, parties PartyLookup) *Service {
	return &Service{
		repo:        repo,
		instruments: instruments,
		parties:     parties,
	}
}

type LinkParams struct {
	InstrumentID uuid.UUID
	PartyID      uuid.UUID
	PartyType    party.Type
	Confidence   int
	AutoLinked   bool
	LinkedBy     string
}

// Upsert links an instrument to a party, replacing whatever link the instrument had.
// It fails with instrument.ErrNotFound or party.ErrNotFound when either side is missing.
func (s *Service) Upsert(ctx context.Context, p LinkParams) (current, replaced *Record, err error) {
	if !p.PartyType.Valid() {
		return nil, nil, fmt.Errorf("%w: party type %q", ErrInvalidInput, p.PartyType)
	}

	if p.Confidence < 0 || p.Confidence > 100 {
		return nil, nil, fmt.Errorf("%w: confidence %d outside 0..100", ErrInvalidInput, p.Confidence)
	}

	if _, err := s.instruments.GetInstrument(ctx, p.InstrumentID); err != nil {
		return nil, nil, fmt.Errorf("getting instrument %s: %w", p.InstrumentID, err)
	}

	if _, err := s.parties.GetParty(ctx, p.PartyID, p.PartyType); err != nil {
		return nil, nil, fmt.Errorf("getting %s %s: %w", p.PartyType, p.PartyID, err)
	}

	rec := &Record{
		ID:           uuid.New(),
		InstrumentID: p.InstrumentID,
		PartyID:      p.PartyID,
		PartyType:    p.PartyType,
		Relationship: RelationshipFor(p.PartyType),
		Confidence:   p.Confidence,
		AutoLinked:   p.AutoLinked,
		LinkedAt:     time.Now().UTC(),
		LinkedBy:     p.LinkedBy,
	}

	replaced, err = s.repo.UpsertLink(ctx, rec)
	if err != nil {
		return nil, nil, fmt.Errorf("upserting link: %w", err)
	}

	return rec, replaced, nil
}

// Remove unlinks an instrument. Removing a link that does not exist is not an error.
func (s *Service) Remove(ctx context.Context, instrumentID uuid.UUID) (*Record, bool, error) {
	removed, err := s.repo.DeleteLink(ctx, instrumentID)
	if err != nil {
		return nil, false, fmt.Errorf("deleting link: %w", err)
	}

	return removed, removed != nil, nil
}

func (s *Service) FindByInstrument(ctx context.Context, instrumentID uuid.UUID) (*Record, error) {
	return s.repo.FindLinkByInstrument(ctx, instrumentID)
}

func (s *Service) FindByParty(ctx context.Context, partyID uuid.UUID, partyType party.Type) ([]*Record, error) {
	return s.repo.FindLinksByParty(ctx, partyID, partyType)
}

func (s *Service) IsLinked(ctx context.Context, instrumentID uuid.UUID) (bool, error) {
	rec, err := s.repo.FindLinkByInstrument(ctx, instrumentID)
	if err != nil {
		return false, err
	}

	return rec != nil, nil
}

func (s *Service) List(ctx context.Context) ([]*Record, error) {
	return s.repo.ListLinks(ctx)
}
