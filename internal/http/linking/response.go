package linking

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

type linkResponse struct {
	ID           uuid.UUID            `json:"id"`
	InstrumentID uuid.UUID            `json:"instrument_id"`
	PartyID      uuid.UUID            `json:"party_id"`
	PartyType    party.Type           `json:"party_type"`
	Relationship linkage.Relationship `json:"relationship"`
	Confidence   int                  `json:"confidence"`
	AutoLinked   bool                 `json:"auto_linked"`
	LinkedAt     time.Time            `json:"linked_at"`
	LinkedBy     string               `json:"linked_by"`
	// ReconcileError is set when the link was stored but an owner aggregate could not be refreshed.
	ReconcileError string `json:"reconcile_error,omitempty"`
}

// unlinkResponse reports whether a link existed; unlinking an unlinked instrument is a no-op.
type unlinkResponse struct {
	Removed bool `json:"removed"`
}

type itemErrorResponse struct {
	InstrumentID uuid.UUID  `json:"instrument_id"`
	PartyID      *uuid.UUID `json:"party_id,omitempty"`
	Op           string     `json:"op"`
	Error        string     `json:"error"`
}

type batchResponse struct {
	Processed            int                 `json:"processed"`
	Linked               int                 `json:"linked"`
	HighConfidence       int                 `json:"high_confidence"`
	LowConfidence        int                 `json:"low_confidence"`
	Suggested            int                 `json:"suggested"`
	Unresolved           int                 `json:"unresolved"`
	SkippedAlreadyLinked int                 `json:"skipped_already_linked"`
	Reconciled           int                 `json:"reconciled"`
	Errors               []itemErrorResponse `json:"errors"`
}

type suggestionResponse struct {
	Rank       int        `json:"rank"`
	PartyID    uuid.UUID  `json:"party_id"`
	PartyType  party.Type `json:"party_type"`
	PartyName  string     `json:"party_name"`
	Confidence int        `json:"confidence"`
	Reasons    []string   `json:"reasons"`
	ComputedAt time.Time  `json:"computed_at"`
}

type typeStatsResponse struct {
	Links  int   `json:"links"`
	Amount int64 `json:"amount"`
}

type statsResponse struct {
	Instruments    int                              `json:"instruments"`
	Linked         int                              `json:"linked"`
	Unlinked       int                              `json:"unlinked"`
	AutoLinked     int                              `json:"auto_linked"`
	ManualLinked   int                              `json:"manual_linked"`
	HighConfidence int                              `json:"high_confidence"`
	LowConfidence  int                              `json:"low_confidence"`
	ByType         map[party.Type]typeStatsResponse `json:"by_type"`
}

func toLinkResponse(rec *linkage.Record) linkResponse {
	return linkResponse{
		ID:           rec.ID,
		InstrumentID: rec.InstrumentID,
		PartyID:      rec.PartyID,
		PartyType:    rec.PartyType,
		Relationship: rec.Relationship,
		Confidence:   rec.Confidence,
		AutoLinked:   rec.AutoLinked,
		LinkedAt:     rec.LinkedAt,
		LinkedBy:     rec.LinkedBy,
	}
}

func toBatchResponse(r *linking.BatchResult) batchResponse {
	resp := batchResponse{
		Processed:            r.Processed,
		Linked:               r.Linked,
		HighConfidence:       r.HighConfidence,
		LowConfidence:        r.LowConfidence,
		Suggested:            r.Suggested,
		Unresolved:           r.Unresolved,
		SkippedAlreadyLinked: r.SkippedAlreadyLinked,
		Reconciled:           r.Reconciled,
		Errors:               make([]itemErrorResponse, 0, len(r.Errors)),
	}

	for _, e := range r.Errors {
		item := itemErrorResponse{InstrumentID: e.InstrumentID, Op: e.Op, Error: e.Err.Error()}
		if e.PartyID != uuid.Nil {
			item.PartyID = &e.PartyID
		}

		resp.Errors = append(resp.Errors, item)
	}

	return resp
}

func toSuggestionList(s []linking.Suggestion) []suggestionResponse {
	resp := make([]suggestionResponse, len(s))
	for i, sg := range s {
		resp[i] = suggestionResponse{
			Rank:       sg.Rank,
			PartyID:    sg.PartyID,
			PartyType:  sg.PartyType,
			PartyName:  sg.PartyName,
			Confidence: sg.Confidence,
			Reasons:    sg.Reasons,
			ComputedAt: sg.ComputedAt,
		}
	}

	return resp
}

func toStatsResponse(s *linking.Stats) statsResponse {
	resp := statsResponse{
		Instruments:    s.Instruments,
		Linked:         s.Linked,
		Unlinked:       s.Unlinked,
		AutoLinked:     s.AutoLinked,
		ManualLinked:   s.ManualLinked,
		HighConfidence: s.HighConfidence,
		LowConfidence:  s.LowConfidence,
		ByType:         make(map[party.Type]typeStatsResponse, len(party.Types)),
	}

	for _, t := range party.Types {
		ts := s.ByType[t]
		resp.ByType[t] = typeStatsResponse{Links: ts.Links, Amount: ts.Amount}
	}

	return resp
}
