package party

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("party not found")
	ErrInvalidInput = errors.New("invalid party input")
)

// Type represents the kind of party an instrument can belong to.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
	TypeEmployee Type = "employee"
)

// Types lists every party type in tie-break precedence order.
var Types = []Type{TypeCustomer, TypeSupplier, TypeEmployee}

func (t Type) Valid() bool {
	switch t {
	case TypeCustomer, TypeSupplier, TypeEmployee:
		return true
	}

	return false
}

// Precedence ranks party types for deterministic tie-breaking; lower wins.
func (t Type) Precedence() int {
	switch t {
	case TypeCustomer:
		return 0
	case TypeSupplier:
		return 1
	case TypeEmployee:
		return 2
	}

	return 3
}

// RiskTier classifies a party by the health of its linked instruments.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Aggregate is the derived financial block of a party.
// It is only ever written as a whole by reconciliation. Amounts are in cents.
type Aggregate struct {
	TotalInstruments int
	TotalAmount      int64
	PendingCount     int
	PendingAmount    int64
	OverdueCount     int
	OverdueAmount    int64
	BouncedCount     int
	BouncedAmount    int64
	SettledCount     int
	SettledAmount    int64
	RiskTier         RiskTier
}

// Party is a customer, supplier or employee that can own financial instruments.
type Party struct {
	ID        uuid.UUID
	Type      Type
	Name      string
	Phone     string
	Email     string
	Aggregate Aggregate
	CreatedAt time.Time
}
