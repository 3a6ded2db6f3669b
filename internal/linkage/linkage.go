package linkage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/partylink/internal/party"
)

var ErrInvalidInput = errors.New("invalid link input")

// Relationship describes what an instrument means for its owner.
type Relationship string

const (
	RelationshipSales     Relationship = "sales"
	RelationshipPurchases Relationship = "purchases"
	RelationshipSalary    Relationship = "salary"
	RelationshipOther     Relationship = "other"
)

// RelationshipFor derives the relationship from the owning party type.
func RelationshipFor(t party.Type) Relationship {
	switch t {
	case party.TypeCustomer:
		return RelationshipSales
	case party.TypeSupplier:
		return RelationshipPurchases
	case party.TypeEmployee:
		return RelationshipSalary
	}

	return RelationshipOther
}

// Record assigns one instrument to one party. An instrument has at most one Record.
type Record struct {
	ID           uuid.UUID
	InstrumentID uuid.UUID
	PartyID      uuid.UUID
	PartyType    party.Type
	Relationship Relationship
	Confidence   int
	AutoLinked   bool
	LinkedAt     time.Time
	LinkedBy     string
}
