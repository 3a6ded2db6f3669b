package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInstrumentColumns = `
	id, kind, amount, due_date, status, raw_owner_name, raw_owner_phone, created_at
`

// scanInstrument expects the columns of selectInstrumentColumns in order.
func scanInstrument(s scanner) (*instrument.Instrument, error) {
	var (
		inst    instrument.Instrument
		kind    string
		status  string
		dueDate sql.NullTime
	)

	if err := s.Scan(
		&inst.ID, &kind, &inst.Amount, &dueDate, &status,
		&inst.RawOwnerName, &inst.RawOwnerPhone, &inst.CreatedAt,
	); err != nil {
		return nil, err
	}

	inst.Kind = instrument.Kind(kind)
	inst.Status = instrument.Status(status)

	if dueDate.Valid {
		inst.DueDate = dueDate.Time
	}

	return &inst, nil
}

func nullableDue(inst *instrument.Instrument) sql.NullTime {
	return sql.NullTime{Time: inst.DueDate, Valid: !inst.DueDate.IsZero()}
}

func (s *Store) CreateInstrument(ctx context.Context, inst *instrument.Instrument) error {
	query := `
		INSERT INTO instruments (kind, amount, due_date, status, raw_owner_name, raw_owner_phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inst.Kind,
		inst.Amount,
		nullableDue(inst),
		inst.Status,
		inst.RawOwnerName,
		inst.RawOwnerPhone,
	).Scan(&inst.ID, &inst.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating instrument: %w", err)
	}

	return nil
}

func (s *Store) GetInstrument(ctx context.Context, id uuid.UUID) (*instrument.Instrument, error) {
	query := `SELECT ` + selectInstrumentColumns + ` FROM instruments WHERE id = $1`

	inst, err := scanInstrument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, instrument.ErrNotFound
		}

		return nil, fmt.Errorf("getting instrument: %w", err)
	}

	return inst, nil
}

func (s *Store) GetInstruments(ctx context.Context, ids []uuid.UUID) ([]*instrument.Instrument, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query := `SELECT ` + selectInstrumentColumns + `
		FROM instruments
		WHERE id = ANY($1::uuid[])
		ORDER BY seq ASC`

	return s.query(ctx, query, keys)
}

func (s *Store) ListInstruments(ctx context.Context, filter instrument.ListFilter) ([]*instrument.Instrument, error) {
	query := `SELECT ` + selectInstrumentColumns + ` FROM instruments`

	var args []any

	if filter.Kind != nil {
		query += " WHERE kind = $1"

		args = append(args, *filter.Kind)
	}

	query += " ORDER BY seq ASC"

	return s.query(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*instrument.Instrument, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing instruments: %w", err)
	}
	defer rows.Close()

	var insts []*instrument.Instrument

	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning instrument: %w", err)
		}

		insts = append(insts, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instrument rows: %w", err)
	}

	return insts, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status instrument.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE instruments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n == 0 {
		return instrument.ErrNotFound
	}

	return nil
}
