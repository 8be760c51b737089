package monitor

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/guardian/secure-contact/internal/history"
	"github.com/guardian/secure-contact/internal/probe"
	"github.com/guardian/secure-contact/internal/publish"
)

// One run walks Attempting(1..MaxAttempts) and ends in Passed or Exhausted.
type runState int

const (
	stateAttempting runState = iota
	statePassed
	stateExhausted
)

const (
	DefaultMaxAttempts = 5
	DefaultBackoff     = 60 * time.Second
)

const (
	alertSubject = "[ALERT P1] SecureDrop Site Failing Healthcheck"
	alertHeading = "SecureDrop Status Update"
	alertText    = "Monitor will attempt to update the page content.\nPlease check that the update has been applied."
)

// StatusNotifier posts the run outcome to a chat channel.
type StatusNotifier interface {
	SendStatus(ctx context.Context, healthy bool) error
}

// AlertMailer escalates a failing outcome by email.
type AlertMailer interface {
	SendAlert(ctx context.Context, subject, heading, text string) error
}

// Runner drives one monitor run end to end. A run is strictly sequential;
// cadence between runs belongs to the external scheduler that invokes the
// process.
type Runner struct {
	Logger     *zap.Logger
	Checker    probe.Checker
	History    history.Store
	Publisher  publish.Publisher
	Status     StatusNotifier
	Mailer     AlertMailer
	Comparator Comparator

	MaxAttempts   int
	Backoff       time.Duration
	WindowSeconds int64
	RecentLimit   int

	sleep func(time.Duration)
	now   func() time.Time
}

func NewRunner(
	logger *zap.Logger,
	checker probe.Checker,
	store history.Store,
	publisher publish.Publisher,
	status StatusNotifier,
	mailer AlertMailer,
) *Runner {
	return &Runner{
		Logger:        logger,
		Checker:       checker,
		History:       store,
		Publisher:     publisher,
		Status:        status,
		Mailer:        mailer,
		Comparator:    MostRecent{},
		MaxAttempts:   DefaultMaxAttempts,
		Backoff:       DefaultBackoff,
		WindowSeconds: history.DefaultWindowSeconds,
		RecentLimit:   history.DefaultRecentLimit,
		sleep:         time.Sleep,
		now:           time.Now,
	}
}

// Report summarizes one completed run.
type Report struct {
	Healthy  bool
	Attempts int
	Changed  bool
}

// Run probes under the bounded-retry policy, decides whether the outcome is
// a transition, fires the side effects, and always appends the outcome to
// history as the last step. Side-effect failures are isolated: they are
// logged and aggregated into the returned error but never abort the run.
func (r *Runner) Run(ctx context.Context, target string) (Report, error) {
	state, attempts := r.attempt(ctx, target)
	healthy := state == statePassed

	var errs error

	recent, err := r.History.Recent(ctx, r.WindowSeconds, r.RecentLimit)
	if err != nil {
		// unreadable history is treated as a first observation
		r.Logger.Warn("history_read_failed", zap.Error(err))
		errs = multierr.Append(errs, err)
		recent = nil
	}

	changed := r.Comparator.Changed(healthy, recent)
	if changed {
		errs = multierr.Append(errs, r.dispatch(ctx, healthy))
	} else {
		r.Logger.Info("state_unchanged", zap.Bool("healthy", healthy))
	}

	rec := history.NewRecord(r.now(), healthy)
	if err := r.History.Append(ctx, rec); err != nil {
		r.Logger.Error("history_append_failed", zap.Error(err))
		errs = multierr.Append(errs, err)
	}

	return Report{Healthy: healthy, Attempts: attempts, Changed: changed}, errs
}

func (r *Runner) attempt(ctx context.Context, target string) (runState, int) {
	state := stateAttempting
	n := 0
	for state == stateAttempting {
		n++
		res := r.Checker.Check(ctx, target)
		if probe.Classify(res) {
			r.Logger.Info("healthcheck_passed", zap.Int("attempt", n))
			state = statePassed
			continue
		}

		fields := []zap.Field{zap.Int("attempt", n), zap.Int("status", res.StatusCode)}
		if res.Err != nil {
			fields = append(fields, zap.Error(res.Err))
		}
		r.Logger.Warn("healthcheck_failed", fields...)

		if n == r.MaxAttempts {
			state = stateExhausted
			continue
		}
		r.sleep(r.Backoff)
	}
	return state, n
}

func (r *Runner) dispatch(ctx context.Context, healthy bool) error {
	var errs error
	if err := r.Publisher.Publish(ctx, healthy); err != nil {
		r.Logger.Error("publish_failed", zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	if err := r.Status.SendStatus(ctx, healthy); err != nil {
		r.Logger.Error("status_message_failed", zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	if !healthy {
		if err := r.Mailer.SendAlert(ctx, alertSubject, alertHeading, alertText); err != nil {
			r.Logger.Error("alert_email_failed", zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
