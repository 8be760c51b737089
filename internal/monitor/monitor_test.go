package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/guardian/secure-contact/internal/history"
	"github.com/guardian/secure-contact/internal/probe"
)

// ---- fakes ----

// fake checker you can control
type fakeChecker struct {
	results []probe.Result
	i       int
}

func (f *fakeChecker) Check(ctx context.Context, target string) probe.Result {
	if f.i >= len(f.results) {
		return probe.Result{Err: errors.New("no more")}
	}
	r := f.results[f.i]
	f.i++
	return r
}

func healthyResult() probe.Result {
	return probe.Result{Reachable: true, StatusCode: 200, Body: probe.ExpectedMarker}
}

func downResult() probe.Result {
	return probe.Result{Err: errors.New("connection refused")}
}

type fakeStore struct {
	recent    []history.OutcomeRecord
	recentErr error
	appends   []history.OutcomeRecord
	appendErr error
}

func (f *fakeStore) Append(ctx context.Context, rec history.OutcomeRecord) error {
	f.appends = append(f.appends, rec)
	return f.appendErr
}

func (f *fakeStore) Recent(ctx context.Context, windowSeconds int64, limit int) ([]history.OutcomeRecord, error) {
	return f.recent, f.recentErr
}

type fakePublisher struct {
	calls []bool
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, healthy bool) error {
	f.calls = append(f.calls, healthy)
	return f.err
}

type fakeStatus struct {
	calls []bool
	err   error
}

func (f *fakeStatus) SendStatus(ctx context.Context, healthy bool) error {
	f.calls = append(f.calls, healthy)
	return f.err
}

type fakeMailer struct {
	subjects []string
	err      error
}

func (f *fakeMailer) SendAlert(ctx context.Context, subject, heading, text string) error {
	f.subjects = append(f.subjects, subject)
	return f.err
}

type testRig struct {
	runner    *Runner
	checker   *fakeChecker
	store     *fakeStore
	publisher *fakePublisher
	status    *fakeStatus
	mailer    *fakeMailer
	sleeps    []time.Duration
}

func newRig(results ...probe.Result) *testRig {
	rig := &testRig{
		checker:   &fakeChecker{results: results},
		store:     &fakeStore{},
		publisher: &fakePublisher{},
		status:    &fakeStatus{},
		mailer:    &fakeMailer{},
	}
	rig.runner = NewRunner(zap.NewNop(), rig.checker, rig.store, rig.publisher, rig.status, rig.mailer)
	rig.runner.sleep = func(d time.Duration) { rig.sleeps = append(rig.sleeps, d) }
	rig.runner.now = func() time.Time { return time.Unix(1570701600, 0) }
	return rig
}

// ---- tests ----

func TestRunner_PassesOnFirstAttempt(t *testing.T) {
	rig := newRig(healthyResult())

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Healthy || report.Attempts != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(rig.sleeps) != 0 {
		t.Fatalf("no backoff expected, slept %d times", len(rig.sleeps))
	}
	if rig.checker.i != 1 {
		t.Fatalf("expected exactly 1 probe, got %d", rig.checker.i)
	}
	if len(rig.publisher.calls) != 1 || !rig.publisher.calls[0] {
		t.Fatalf("publish calls: %+v", rig.publisher.calls)
	}
	if len(rig.status.calls) != 1 || !rig.status.calls[0] {
		t.Fatalf("status calls: %+v", rig.status.calls)
	}
	if len(rig.mailer.subjects) != 0 {
		t.Fatalf("no email on healthy outcome, got %+v", rig.mailer.subjects)
	}
}

func TestRunner_RecoversMidway(t *testing.T) {
	rig := newRig(downResult(), downResult(), healthyResult())

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Healthy || report.Attempts != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(rig.sleeps) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(rig.sleeps))
	}
	for _, d := range rig.sleeps {
		if d != rig.runner.Backoff {
			t.Fatalf("backoff drifted: %v", d)
		}
	}
}

func TestRunner_ExhaustsAfterMaxAttempts(t *testing.T) {
	rig := newRig(downResult(), downResult(), downResult(), downResult(), downResult(), downResult())

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Healthy || report.Attempts != DefaultMaxAttempts {
		t.Fatalf("unexpected report: %+v", report)
	}
	if rig.checker.i != DefaultMaxAttempts {
		t.Fatalf("probe count: %d", rig.checker.i)
	}
	// 4 sleeps in the worst case: between attempts, never after the last
	if len(rig.sleeps) != DefaultMaxAttempts-1 {
		t.Fatalf("sleep count: %d", len(rig.sleeps))
	}
	if len(rig.publisher.calls) != 1 || rig.publisher.calls[0] {
		t.Fatalf("publish calls: %+v", rig.publisher.calls)
	}
	if len(rig.mailer.subjects) != 1 || rig.mailer.subjects[0] != alertSubject {
		t.Fatalf("alert email not escalated: %+v", rig.mailer.subjects)
	}
	if len(rig.status.calls) != 1 || rig.status.calls[0] {
		t.Fatalf("status calls: %+v", rig.status.calls)
	}
}

func TestRunner_AppendsHistoryDespiteSideEffectFailures(t *testing.T) {
	rig := newRig(healthyResult())
	rig.publisher.err = errors.New("s3 down")
	rig.status.err = errors.New("webhook down")

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err == nil {
		t.Fatal("expected aggregated side-effect error")
	}
	if !report.Healthy || !report.Changed {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(rig.store.appends) != 1 {
		t.Fatalf("append must run exactly once, got %d", len(rig.store.appends))
	}
	rec := rig.store.appends[0]
	if !rec.Outcome || rec.CheckTime != 1570701600 || rec.ExpirationTime != 1571306400 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRunner_SkipsSideEffectsWhenStateUnchanged(t *testing.T) {
	rig := newRig(healthyResult())
	rig.store.recent = []history.OutcomeRecord{
		{CheckTime: 1570701500, Outcome: true, ExpirationTime: history.Expiry(1570701500)},
	}

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Changed {
		t.Fatalf("expected unchanged state, got %+v", report)
	}
	if len(rig.publisher.calls) != 0 || len(rig.status.calls) != 0 || len(rig.mailer.subjects) != 0 {
		t.Fatal("side effects fired without a transition")
	}
	if len(rig.store.appends) != 1 {
		t.Fatalf("append must still run, got %d", len(rig.store.appends))
	}
}

func TestRunner_TransitionFromFailingToHealthy(t *testing.T) {
	rig := newRig(healthyResult())
	rig.store.recent = []history.OutcomeRecord{
		{CheckTime: 1570701500, Outcome: false, ExpirationTime: history.Expiry(1570701500)},
	}

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Changed {
		t.Fatalf("recovery should be a transition: %+v", report)
	}
	if len(rig.publisher.calls) != 1 || !rig.publisher.calls[0] {
		t.Fatalf("publish calls: %+v", rig.publisher.calls)
	}
	if len(rig.status.calls) != 1 {
		t.Fatalf("status calls: %+v", rig.status.calls)
	}
	if len(rig.store.appends) != 1 || !rig.store.appends[0].Outcome {
		t.Fatalf("appends: %+v", rig.store.appends)
	}
}

func TestRunner_HistoryReadFailureActsAsFirstObservation(t *testing.T) {
	rig := newRig(healthyResult())
	rig.store.recentErr = errors.New("scan failed")

	report, err := rig.runner.Run(context.Background(), "http://example.onion")
	if err == nil {
		t.Fatal("expected read error surfaced in aggregate")
	}
	if !report.Changed {
		t.Fatal("unreadable history should count as a transition")
	}
	if len(rig.publisher.calls) != 1 {
		t.Fatalf("publish calls: %+v", rig.publisher.calls)
	}
	if len(rig.store.appends) != 1 {
		t.Fatalf("append must still run, got %d", len(rig.store.appends))
	}
}
