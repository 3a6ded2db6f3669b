package party

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=party

// Repository is the party registry.
type Repository interface {
	CreateParty(ctx context.Context, p *Party) error
	GetParty(ctx context.Context, id uuid.UUID, t Type) (*Party, error)
	ListParties(ctx context.Context, filter ListFilter) ([]*Party, error)
	// UpdateAggregate replaces the whole aggregate block and returns ErrNotFound without writing
	// anything when the party does not exist.
	UpdateAggregate(ctx context.Context, id uuid.UUID, t Type, agg Aggregate) error
}

// ListFilter narrows ListParties. Results are always in registration order.
type ListFilter struct {
	Type *Type
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Type  Type
	Name  string
	Phone string
	Email string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Party, error) {
	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: party type %q", ErrInvalidInput, params.Type)
	}

	if strings.TrimSpace(params.Name) == "" && strings.TrimSpace(params.Phone) == "" {
		return nil, fmt.Errorf("%w: name or phone is required", ErrInvalidInput)
	}

	p := &Party{
		Type:      params.Type,
		Name:      params.Name,
		Phone:     params.Phone,
		Email:     params.Email,
		Aggregate: Aggregate{RiskTier: RiskLow},
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateParty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, t Type) (*Party, error) {
	return s.repo.GetParty(ctx, id, t)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Party, error) {
	return s.repo.ListParties(ctx, filter)
}
