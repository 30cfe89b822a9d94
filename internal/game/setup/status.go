package setup

import "fmt"

// Status is how a rebalance run ended
type Status int

const (
	// StatusApplied - swaps were planned and executed (or planned, in a dry run)
	StatusApplied Status = iota

	// StatusAlreadyOptimal - every human already sits on a winning position
	StatusAlreadyOptimal

	// StatusSkippedCapExceeded - more participants than the search supports
	StatusSkippedCapExceeded

	// StatusSkippedTooFewHumans - fewer than two humans, nothing to spread
	StatusSkippedTooFewHumans

	// StatusSkippedAllHuman - no AI participant to trade places with
	StatusSkippedAllHuman
)

// String returns the snake_case name used in events, logs and storage
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusAlreadyOptimal:
		return "already_optimal"
	case StatusSkippedCapExceeded:
		return "skipped_cap_exceeded"
	case StatusSkippedTooFewHumans:
		return "skipped_too_few_humans"
	case StatusSkippedAllHuman:
		return "skipped_all_human"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Skipped reports whether the optimizer was never invoked
func (s Status) Skipped() bool {
	return s == StatusSkippedCapExceeded || s == StatusSkippedTooFewHumans || s == StatusSkippedAllHuman
}

// ParseStatus converts a stored status name back to a Status
func ParseStatus(s string) (Status, bool) {
	for st := StatusApplied; st <= StatusSkippedAllHuman; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}
