package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/party"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectPartyColumns = `
	id, type, name, phone, email,
	total_instruments, total_amount, pending_count, pending_amount,
	overdue_count, overdue_amount, bounced_count, bounced_amount,
	settled_count, settled_amount, risk_tier, created_at
`

func scanParty(s scanner) (*party.Party, error) {
	var (
		p        party.Party
		typeStr  string
		riskTier string
	)

	a := &p.Aggregate

	if err := s.Scan(
		&p.ID, &typeStr, &p.Name, &p.Phone, &p.Email,
		&a.TotalInstruments, &a.TotalAmount, &a.PendingCount, &a.PendingAmount,
		&a.OverdueCount, &a.OverdueAmount, &a.BouncedCount, &a.BouncedAmount,
		&a.SettledCount, &a.SettledAmount, &riskTier, &p.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.Type = party.Type(typeStr)
	a.RiskTier = party.RiskTier(riskTier)

	return &p, nil
}

func (s *Store) CreateParty(ctx context.Context, p *party.Party) error {
	query := `
		INSERT INTO parties (type, name, phone, email, risk_tier, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	riskTier := p.Aggregate.RiskTier
	if riskTier == "" {
		riskTier = party.RiskLow
	}

	err := s.db.QueryRowContext(ctx, query, p.Type, p.Name, p.Phone, p.Email, riskTier).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating party: %w", err)
	}

	return nil
}

func (s *Store) GetParty(ctx context.Context, id uuid.UUID, t party.Type) (*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + ` FROM parties WHERE id = $1 AND type = $2`

	p, err := scanParty(s.db.QueryRowContext(ctx, query, id, t))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, party.ErrNotFound
		}

		return nil, fmt.Errorf("getting party: %w", err)
	}

	return p, nil
}

func (s *Store) ListParties(ctx context.Context, filter party.ListFilter) ([]*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + ` FROM parties`

	var args []any

	if filter.Type != nil {
		query += " WHERE type = $1"

		args = append(args, *filter.Type)
	}

	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}
	defer rows.Close()

	var parties []*party.Party

	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning party: %w", err)
		}

		parties = append(parties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating party rows: %w", err)
	}

	return parties, nil
}

// UpdateAggregate writes the whole aggregate block in one statement.
func (s *Store) UpdateAggregate(ctx context.Context, id uuid.UUID, t party.Type, a party.Aggregate) error {
	query := `
		UPDATE parties
		SET total_instruments = $1, total_amount = $2,
			pending_count = $3, pending_amount = $4,
			overdue_count = $5, overdue_amount = $6,
			bounced_count = $7, bounced_amount = $8,
			settled_count = $9, settled_amount = $10,
			risk_tier = $11
		WHERE id = $12 AND type = $13
	`

	res, err := s.db.ExecContext(ctx, query,
		a.TotalInstruments, a.TotalAmount,
		a.PendingCount, a.PendingAmount,
		a.OverdueCount, a.OverdueAmount,
		a.BouncedCount, a.BouncedAmount,
		a.SettledCount, a.SettledAmount,
		a.RiskTier,
		id, t,
	)
	if err != nil {
		return fmt.Errorf("updating aggregate: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating aggregate: %w", err)
	}

	if n == 0 {
		return party.ErrNotFound
	}

	return nil
}
