package party

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/linkage"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

type aggregateResponse struct {
	TotalInstruments int            `json:"total_instruments"`
	TotalAmount      int64          `json:"total_amount"`
	PendingCount     int            `json:"pending_count"`
	PendingAmount    int64          `json:"pending_amount"`
	OverdueCount     int            `json:"overdue_count"`
	OverdueAmount    int64          `json:"overdue_amount"`
	BouncedCount     int            `json:"bounced_count"`
	BouncedAmount    int64          `json:"bounced_amount"`
	SettledCount     int            `json:"settled_count"`
	SettledAmount    int64          `json:"settled_amount"`
	RiskTier         party.RiskTier `json:"risk_tier"`
}

type partyResponse struct {
	ID        uuid.UUID         `json:"id"`
	Type      party.Type        `json:"type"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone,omitempty"`
	Email     string            `json:"email,omitempty"`
	Aggregate aggregateResponse `json:"aggregate"`
	CreatedAt time.Time         `json:"created_at"`
}

type linkResponse struct {
	InstrumentID uuid.UUID            `json:"instrument_id"`
	Relationship linkage.Relationship `json:"relationship"`
	Confidence   int                  `json:"confidence"`
	AutoLinked   bool                 `json:"auto_linked"`
	LinkedAt     time.Time            `json:"linked_at"`
	LinkedBy     string               `json:"linked_by"`
}

type importResponse struct {
	Profile  string          `json:"profile"`
	Charset  string          `json:"charset"`
	Imported int             `json:"imported"`
	Parties  []partyResponse `json:"parties"`
}

func toAggregateResponse(a party.Aggregate) aggregateResponse {
	return aggregateResponse{
		TotalInstruments: a.TotalInstruments,
		TotalAmount:      a.TotalAmount,
		PendingCount:     a.PendingCount,
		PendingAmount:    a.PendingAmount,
		OverdueCount:     a.OverdueCount,
		OverdueAmount:    a.OverdueAmount,
		BouncedCount:     a.BouncedCount,
		BouncedAmount:    a.BouncedAmount,
		SettledCount:     a.SettledCount,
		SettledAmount:    a.SettledAmount,
		RiskTier:         a.RiskTier,
	}
}

func toResponse(p *party.Party) partyResponse {
	return partyResponse{
		ID:        p.ID,
		Type:      p.Type,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		Aggregate: toAggregateResponse(p.Aggregate),
		CreatedAt: p.CreatedAt,
	}
}

func toResponseList(ps []*party.Party) []partyResponse {
	resp := make([]partyResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	return resp
}

func toLinkList(recs []*linkage.Record) []linkResponse {
	resp := make([]linkResponse, len(recs))
	for i, rec := range recs {
		resp[i] = linkResponse{
			InstrumentID: rec.InstrumentID,
			Relationship: rec.Relationship,
			Confidence:   rec.Confidence,
			AutoLinked:   rec.AutoLinked,
			LinkedAt:     rec.LinkedAt,
			LinkedBy:     rec.LinkedBy,
		}
	}

	return resp
}
