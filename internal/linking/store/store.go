package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Store keeps the last computed suggestions of every instrument.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveSuggestions(ctx context.Context, instrumentID uuid.UUID, sugg []linking.Suggestion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning suggestions tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM link_suggestions WHERE instrument_id = $1`, instrumentID); err != nil {
		return fmt.Errorf("clearing suggestions: %w", err)
	}

	query := `
		INSERT INTO link_suggestions (instrument_id, rank, party_id, party_type, party_name, confidence, reasons, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, sg := range sugg {
		reasons, err := json.Marshal(sg.Reasons)
		if err != nil {
			return fmt.Errorf("encoding reasons: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query,
			instrumentID, sg.Rank, sg.PartyID, sg.PartyType, sg.PartyName, sg.Confidence, string(reasons), sg.ComputedAt,
		); err != nil {
			return fmt.Errorf("inserting suggestion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing suggestions: %w", err)
	}

	return nil
}

func (s *Store) ListSuggestions(ctx context.Context, instrumentID uuid.UUID) ([]linking.Suggestion, error) {
	query := `
		SELECT instrument_id, rank, party_id, party_type, party_name, confidence, reasons, computed_at
		FROM link_suggestions
		WHERE instrument_id = $1
		ORDER BY rank ASC
	`

	rows, err := s.db.QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	defer rows.Close()

	var out []linking.Suggestion

	for rows.Next() {
		var (
			sg        linking.Suggestion
			partyType string
			reasons   []byte
		)

		if err := rows.Scan(
			&sg.InstrumentID, &sg.Rank, &sg.PartyID, &partyType, &sg.PartyName, &sg.Confidence, &reasons, &sg.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}

		sg.PartyType = party.Type(partyType)

		if err := json.Unmarshal(reasons, &sg.Reasons); err != nil {
			return nil, fmt.Errorf("decoding reasons: %w", err)
		}

		out = append(out, sg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suggestion rows: %w", err)
	}

	return out, nil
}

func (s *Store) ClearSuggestions(ctx context.Context, instrumentID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM link_suggestions WHERE instrument_id = $1`, instrumentID); err != nil {
		return fmt.Errorf("clearing suggestions: %w", err)
	}

	return nil
}
