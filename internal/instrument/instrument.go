package instrument

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("instrument not found")
	ErrInvalidInput = errors.New("invalid instrument input")
)

// Kind tags the type of financial instrument.
type Kind string

const (
	KindCheck       Kind = "check"
	KindInstallment Kind = "installment"
)

func (k Kind) Valid() bool {
	return k == KindCheck || k == KindInstallment
}

// Status is the kind-specific lifecycle state of an instrument.
type Status string

const (
	StatusPending Status = "pending"
	StatusCashed  Status = "cashed"
	StatusBounced Status = "bounced"

	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// ValidFor reports whether s is a legal status for instruments of kind k.
func (s Status) ValidFor(k Kind) bool {
	switch k {
	case KindCheck:
		return s == StatusPending || s == StatusCashed || s == StatusBounced
	case KindInstallment:
		return s == StatusActive || s == StatusCompleted || s == StatusOverdue || s == StatusCancelled
	}

	return false
}

// Instrument is a check or an installment plan.
// RawOwnerName and RawOwnerPhone hold the owner exactly as entered upstream and are never rewritten.
type Instrument struct {
	ID            uuid.UUID
	Kind          Kind
	Amount        int64 // Amount in cents
	DueDate       time.Time
	Status        Status
	RawOwnerName  string
	RawOwnerPhone string
	CreatedAt     time.Time
}
