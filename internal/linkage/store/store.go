package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/party"
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

const recordColumns = `
	id, instrument_id, party_id, party_type, relationship, confidence, auto_linked, linked_at, linked_by
`

func scanRecord(s scanner) (*linkage.Record, error) {
	var (
		rec          linkage.Record
		partyType    string
		relationship string
	)

	if err := s.Scan(
		&rec.ID, &rec.InstrumentID, &rec.PartyID, &partyType, &relationship,
		&rec.Confidence, &rec.AutoLinked, &rec.LinkedAt, &rec.LinkedBy,
	); err != nil {
		return nil, err
	}

	rec.PartyType = party.Type(partyType)
	rec.Relationship = linkage.Relationship(relationship)

	return &rec, nil
}

// linkLockKey maps an instrument to the advisory lock serializing writes to its link.
func linkLockKey(instrumentID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("instrument_link"))
	h.Write([]byte{0})
	h.Write(instrumentID[:])

	return int64(h.Sum64())
}

func (s *Store) withInstrumentLock(ctx context.Context, instrumentID uuid.UUID, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning link tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", linkLockKey(instrumentID)); err != nil {
		return fmt.Errorf("acquiring link lock: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing link tx: %w", err)
	}

	return nil
}

func deleteLink(ctx context.Context, tx *sql.Tx, instrumentID uuid.UUID) (*linkage.Record, error) {
	query := `DELETE FROM instrument_links WHERE instrument_id = $1 RETURNING ` + recordColumns

	rec, err := scanRecord(tx.QueryRowContext(ctx, query, instrumentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("deleting link: %w", err)
	}

	return rec, nil
}

// UpsertLink replaces the link of rec.InstrumentID and returns the replaced record, if any.
func (s *Store) UpsertLink(ctx context.Context, rec *linkage.Record) (*linkage.Record, error) {
	var replaced *linkage.Record

	err := s.withInstrumentLock(ctx, rec.InstrumentID, func(tx *sql.Tx) error {
		prev, err := deleteLink(ctx, tx, rec.InstrumentID)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO instrument_links (` + recordColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		if _, err := tx.ExecContext(ctx, query,
			rec.ID, rec.InstrumentID, rec.PartyID, rec.PartyType, rec.Relationship,
			rec.Confidence, rec.AutoLinked, rec.LinkedAt, rec.LinkedBy,
		); err != nil {
			return fmt.Errorf("inserting link: %w", err)
		}

		replaced = prev

		return nil
	})
	if err != nil {
		return nil, err
	}

	return replaced, nil
}

func (s *Store) DeleteLink(ctx context.Context, instrumentID uuid.UUID) (*linkage.Record, error) {
	var removed *linkage.Record

	err := s.withInstrumentLock(ctx, instrumentID, func(tx *sql.Tx) error {
		rec, err := deleteLink(ctx, tx, instrumentID)
		removed = rec

		return err
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

func (s *Store) FindLinkByInstrument(ctx context.Context, instrumentID uuid.UUID) (*linkage.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM instrument_links WHERE instrument_id = $1`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, instrumentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("finding link: %w", err)
	}

	return rec, nil
}

func (s *Store) FindLinksByParty(ctx context.Context, partyID uuid.UUID, partyType party.Type) ([]*linkage.Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM instrument_links
		WHERE party_id = $1 AND party_type = $2
		ORDER BY linked_at ASC`

	return s.query(ctx, query, partyID, partyType)
}

func (s *Store) ListLinks(ctx context.Context) ([]*linkage.Record, error) {
	return s.query(ctx, `SELECT `+recordColumns+` FROM instrument_links ORDER BY linked_at ASC`)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*linkage.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	var recs []*linkage.Record

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating link rows: %w", err)
	}

	return recs, nil
}
