package monitor

import (
	"testing"

	"github.com/guardian/secure-contact/internal/history"
)

func TestMostRecent_EmptyHistoryIsATransition(t *testing.T) {
	if !(MostRecent{}).Changed(true, nil) {
		t.Fatal("first-ever observation should count as changed")
	}
}

func TestMostRecent_ComparesAgainstLatestPriorRecord(t *testing.T) {
	// unordered on purpose: the store does not guarantee ordering
	recent := []history.OutcomeRecord{
		{CheckTime: 1570701000, Outcome: true},
		{CheckTime: 1570701500, Outcome: false},
		{CheckTime: 1570700800, Outcome: true},
	}

	if !(MostRecent{}).Changed(true, recent) {
		t.Fatal("latest prior is false, latest true should be a change")
	}
	if (MostRecent{}).Changed(false, recent) {
		t.Fatal("latest prior is false, latest false is a repeat")
	}
}

func TestMostRecent_RepeatIsNotATransition(t *testing.T) {
	recent := []history.OutcomeRecord{{CheckTime: 1570701500, Outcome: true}}
	if (MostRecent{}).Changed(true, recent) {
		t.Fatal("matching outcome should not be a change")
	}
}
