// Package updater runs one fetch-and-store invocation of a pipeline:
// resolve date and slot, load the store, roll the day over, skip when the
// slot is already populated, otherwise fetch and fall back on failure,
// then save. One process per scheduled trigger; there is no loop.
package updater

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/ratestash/ratestash/internal/entities"
	"github.com/ratestash/ratestash/internal/metrics"
	"github.com/ratestash/ratestash/internal/updater/engine"
	"github.com/ratestash/ratestash/internal/updater/schedule"
)

// Run outcomes, used for the log line and the metrics label.
const (
	OutcomeSkip     = "skip"
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeFailure  = "failure"
)

type Params struct {
	Pipeline string
	Storage  Storage
	Client   Client
	Notifier Notifier // optional, nil disables update notifications
	Schedule *schedule.Schedule
	Keys     Credentials
	// SlotOverride forces the slot for manual or test invocations; it is
	// translated through the schedule's alias table before anything else.
	SlotOverride string
	// UseFallback enables the substitute-on-failure chain. The whole-day
	// pipeline keeps it off: a failed daily fetch just leaves data null.
	UseFallback bool
}

type Updater struct {
	pipeline string
	storage  Storage
	client   Client
	notifier Notifier
	sched    *schedule.Schedule
	keys     Credentials
	override string
	fallback bool
	now      func() time.Time
}

func New(p Params) *Updater {
	return &Updater{
		pipeline: p.Pipeline,
		storage:  p.Storage,
		client:   p.Client,
		notifier: p.Notifier,
		sched:    p.Schedule,
		keys:     p.Keys,
		override: p.SlotOverride,
		fallback: p.UseFallback,
		now:      time.Now,
	}
}

// Run executes one invocation. A returned error is unrecoverable
// (configuration or store corruption); fetch failures are handled inside
// and still end in a completed, saved run.
func (u *Updater) Run(ctx context.Context) error {
	const op = "updater.Run"

	now := u.now()
	today := u.sched.Today(now)
	labels := u.sched.Labels()

	slot := u.sched.ActiveSlot(now)
	if u.override != "" {
		slot = u.sched.TranslateOverride(u.override)
	}
	if !u.sched.Contains(slot) {
		return errors.Wrapf(entities.ErrUnknownSlot, "%s: override %q", op, slot)
	}

	key, err := SelectKey(u.keys, civilDay(today))
	if err != nil {
		return errors.Wrap(err, op)
	}

	st, err := u.storage.Load()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if err := st.Normalize(labels); err != nil {
		return errors.Wrapf(entities.ErrStoreCorrupt, "%s: %v", op, err)
	}

	if rolled := engine.Rollover(st, today, labels); rolled {
		slog.Info("rolled store over to new day", "pipeline", u.pipeline, "date", today)
	}

	if !engine.NeedsFetch(st, slot) {
		slog.Info("slot already populated, skipping fetch",
			"pipeline", u.pipeline, "date", today, "slot", slot)
		metrics.FetchRunsTotal.WithLabelValues(u.pipeline, OutcomeSkip).Inc()
		return nil
	}

	outcome := OutcomeSuccess
	payload, fetchErr := u.client.Fetch(ctx, key)
	switch {
	case fetchErr == nil:
		st.Today.SetSlot(slot, payload)
		slog.Info("fetched fresh rates", "pipeline", u.pipeline, "slot", slot)
	case u.fallback:
		outcome = OutcomeFallback
		sub := engine.Fallback(st, slot, labels)
		st.Today.SetSlot(slot, sub)
		slog.Warn("fetch failed, applied fallback",
			"pipeline", u.pipeline, "slot", slot,
			"substituted", sub != nil, "error", fetchErr)
	default:
		outcome = OutcomeFailure
		slog.Warn("fetch failed, keeping existing data",
			"pipeline", u.pipeline, "slot", slot, "error", fetchErr)
	}

	if err := u.storage.Save(st); err != nil {
		return errors.Wrap(err, op)
	}
	metrics.FetchRunsTotal.WithLabelValues(u.pipeline, outcome).Inc()

	if u.notifier != nil {
		if err := u.notifier.PublishUpdated(ctx, u.pipeline); err != nil {
			slog.Error("failed to publish update notification",
				"pipeline", u.pipeline, "error", err)
		}
	}

	return nil
}

// civilDay extracts the day of month from a resolved YYYY-MM-DD string.
func civilDay(date string) int {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 1
	}
	return t.Day()
}
