// Package report renders linking results as plain text for the CLI and for pasting into emails.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/partylink/internal/linking"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Amount formats cents with two decimals.
func Amount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Batch summarizes a batch run, one line per item error after the counters.
func Batch(r linking.BatchResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Processed: %d | Linked: %d (high %d, low %d) | Suggested: %d | Unresolved: %d | Skipped: %d | Reconciled: %d\n",
		r.Processed, r.Linked, r.HighConfidence, r.LowConfidence, r.Suggested, r.Unresolved, r.SkippedAlreadyLinked, r.Reconciled)

	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "! %s\n", e.Error())
	}

	return sb.String()
}

func Suggestions(s []linking.Suggestion) string {
	if len(s) == 0 {
		return "No suggestions\n"
	}

	var sb strings.Builder

	for _, sg := range s {
		fmt.Fprintf(&sb, "* #%d | %s | %s | %d%% | %s\n",
			sg.Rank, sg.PartyType, sg.PartyName, sg.Confidence, strings.Join(sg.Reasons, ", "))
	}

	return sb.String()
}

// Stats lists the global counters followed by one line per party type.
func Stats(s linking.Stats) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Instruments: %d | Linked: %d | Unlinked: %d\n", s.Instruments, s.Linked, s.Unlinked)
	fmt.Fprintf(&sb, "Auto: %d | Manual: %d | High confidence: %d | Low confidence: %d\n",
		s.AutoLinked, s.ManualLinked, s.HighConfidence, s.LowConfidence)

	for _, t := range party.Types {
		ts := s.ByType[t]
		fmt.Fprintf(&sb, "* %s | %d links | %s\n", t, ts.Links, Amount(ts.Amount))
	}

	return sb.String()
}

func Parties(ps []*party.Party) string {
	var sb strings.Builder

	for _, p := range ps {
		a := p.Aggregate

		risk := a.RiskTier
		if risk == "" {
			risk = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %d instruments | %s | overdue %d (%s) | bounced %d (%s) | risk %s\n",
			p.Type, p.Name, a.TotalInstruments, Amount(a.TotalAmount),
			a.OverdueCount, Amount(a.OverdueAmount), a.BouncedCount, Amount(a.BouncedAmount), risk)
	}

	return sb.String()
}
