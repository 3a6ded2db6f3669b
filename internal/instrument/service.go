package instrument

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=instrument

// Repository is the instrument registry.
type Repository interface {
	CreateInstrument(ctx context.Context, inst *Instrument) error
	GetInstrument(ctx context.Context, id uuid.UUID) (*Instrument, error)
	// GetInstruments returns the instruments that exist among ids; unknown ids are omitted.
	GetInstruments(ctx context.Context, ids []uuid.UUID) ([]*Instrument, error)
	ListInstruments(ctx context.Context, filter ListFilter) ([]*Instrument, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type ListFilter struct {
	Kind *Kind
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Kind          Kind
	Amount        int64
	DueDate       time.Time
	Status        Status
	RawOwnerName  string
	RawOwnerPhone string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Instrument, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	inst := &Instrument{
		Kind:          params.Kind,
		Amount:        params.Amount,
		DueDate:       params.DueDate,
		Status:        params.Status,
		RawOwnerName:  params.RawOwnerName,
		RawOwnerPhone: params.RawOwnerPhone,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.CreateInstrument(ctx, inst); err != nil {
		return nil, err
	}

	return inst, nil
}

// CreateBatch creates every instrument in params, stopping at the first failure.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Instrument, error) {
	insts := make([]*Instrument, 0, len(params))

	for i, p := range params {
		inst, err := s.Create(ctx, p)
		if err != nil {
			return insts, fmt.Errorf("instrument %d: %w", i+1, err)
		}

		insts = append(insts, inst)
	}

	return insts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Instrument, error) {
	return s.repo.GetInstrument(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Instrument, error) {
	return s.repo.ListInstruments(ctx, filter)
}

// UpdateStatus moves an instrument to a new status after checking it is legal for its kind.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	inst, err := s.repo.GetInstrument(ctx, id)
	if err != nil {
		return err
	}

	if !status.ValidFor(inst.Kind) {
		return fmt.Errorf("%w: status %q for %s", ErrInvalidInput, status, inst.Kind)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (p CreateParams) validate() error {
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidInput, p.Kind)
	}

	if !p.Status.ValidFor(p.Kind) {
		return fmt.Errorf("%w: status %q for %s", ErrInvalidInput, p.Status, p.Kind)
	}

	if p.Amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidInput, p.Amount)
	}

	return nil
}
