package reconcile

import (
	"time"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// RiskPolicy holds the overdue-ratio thresholds, in percent of linked instruments.
type RiskPolicy struct {
	HighOverduePct   int
	MediumOverduePct int
}

func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{HighOverduePct: 20, MediumOverduePct: 5}
}

type riskRule struct {
	tier    party.RiskTier
	applies func(a party.Aggregate, p RiskPolicy) bool
}

// riskRules is evaluated top to bottom and applies to every party type alike.
var riskRules = []riskRule{
	{
		tier: party.RiskHigh,
		applies: func(a party.Aggregate, p RiskPolicy) bool {
			return overdueAbove(a, p.HighOverduePct) || a.BouncedAmount > 0
		},
	},
	{
		tier: party.RiskMedium,
		applies: func(a party.Aggregate, p RiskPolicy) bool {
			return overdueAbove(a, p.MediumOverduePct)
		},
	},
}

// overdueAbove reports whether more than pct percent of the instruments are overdue.
func overdueAbove(a party.Aggregate, pct int) bool {
	return a.TotalInstruments > 0 && a.OverdueCount*100 > pct*a.TotalInstruments
}

// RiskTier classifies an aggregate block with the rule table.
func RiskTier(a party.Aggregate, p RiskPolicy) party.RiskTier {
	for _, r := range riskRules {
		if r.applies(a, p) {
			return r.tier
		}
	}

	return party.RiskLow
}

// Compute builds an aggregate block from the full set of instruments linked to a party.
// A pending check is overdue once its due date has passed; installments carry overdue as a status.
// Pending and overdue are disjoint, and bounced checks are counted apart from both.
func Compute(insts []*instrument.Instrument, now time.Time, policy RiskPolicy) party.Aggregate {
	var a party.Aggregate

	for _, inst := range insts {
		a.TotalInstruments++
		a.TotalAmount += inst.Amount

		switch state(inst, now) {
		case statePending:
			a.PendingCount++
			a.PendingAmount += inst.Amount
		case stateOverdue:
			a.OverdueCount++
			a.OverdueAmount += inst.Amount
		case stateBounced:
			a.BouncedCount++
			a.BouncedAmount += inst.Amount
		case stateSettled:
			a.SettledCount++
			a.SettledAmount += inst.Amount
		}
	}

	a.RiskTier = RiskTier(a, policy)

	return a
}

type instrumentState int

const (
	stateOther instrumentState = iota
	statePending
	stateOverdue
	stateBounced
	stateSettled
)

func state(inst *instrument.Instrument, now time.Time) instrumentState {
	switch inst.Kind {
	case instrument.KindCheck:
		switch inst.Status {
		case instrument.StatusPending:
			if !inst.DueDate.IsZero() && inst.DueDate.Before(now) {
				return stateOverdue
			}

			return statePending
		case instrument.StatusBounced:
			return stateBounced
		case instrument.StatusCashed:
			return stateSettled
		}
	case instrument.KindInstallment:
		switch inst.Status {
		case instrument.StatusActive:
			return statePending
		case instrument.StatusOverdue:
			return stateOverdue
		case instrument.StatusCompleted:
			return stateSettled
		}
	}

	return stateOther
}
