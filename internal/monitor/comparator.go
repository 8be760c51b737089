package monitor

import "github.com/guardian/secure-contact/internal/history"

// Comparator decides whether the latest outcome is a state transition worth
// publishing and alerting, as opposed to a repeat of the known state.
type Comparator interface {
	Changed(latest bool, recent []history.OutcomeRecord) bool
}

// MostRecent compares the latest outcome against the most recent prior
// record. Empty history counts as a transition (first-ever observation).
type MostRecent struct{}

func (MostRecent) Changed(latest bool, recent []history.OutcomeRecord) bool {
	if len(recent) == 0 {
		return true
	}
	prior := recent[0]
	for _, rec := range recent[1:] {
		if rec.CheckTime > prior.CheckTime {
			prior = rec
		}
	}
	return prior.Outcome != latest
}
