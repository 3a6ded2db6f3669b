package instrument

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
)

type instrumentResponse struct {
	ID            uuid.UUID         `json:"id"`
	Kind          instrument.Kind   `json:"kind"`
	Amount        int64             `json:"amount"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	Status        instrument.Status `json:"status"`
	RawOwnerName  string            `json:"raw_owner_name"`
	RawOwnerPhone string            `json:"raw_owner_phone,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type importResponse struct {
	Profile     string               `json:"profile"`
	Charset     string               `json:"charset"`
	Imported    int                  `json:"imported"`
	Instruments []instrumentResponse `json:"instruments"`
}

func toResponse(inst *instrument.Instrument) instrumentResponse {
	resp := instrumentResponse{
		ID:            inst.ID,
		Kind:          inst.Kind,
		Amount:        inst.Amount,
		Status:        inst.Status,
		RawOwnerName:  inst.RawOwnerName,
		RawOwnerPhone: inst.RawOwnerPhone,
		CreatedAt:     inst.CreatedAt,
	}

	if !inst.DueDate.IsZero() {
		resp.DueDate = &inst.DueDate
	}

	return resp
}

func toResponseList(insts []*instrument.Instrument) []instrumentResponse {
	resp := make([]instrumentResponse, len(insts))
	for i, inst := range insts {
		resp[i] = toResponse(inst)
	}

	return resp
}
