// Package janitor implements the daily operator-group sweep (spec.md
// §4.7): idle groups whose user has no open ticket and no ticket in the
// last 5 days are deleted by the same worker identity that created them.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/narvesen/supportbot/internal/metrics"
	"github.com/narvesen/supportbot/internal/workerpool"
	"github.com/narvesen/supportbot/store"
)

// schedule is spec.md §4.7's daily sweep time, UTC.
const schedule = "0 3 * * *"

// idleAfter is spec.md §4.7's 5-day idle threshold.
const idleAfter = 5 * 24 * time.Hour

// errorBackoff is spec.md §4.7/§7's retry-on-error policy.
const errorBackoff = 300 * time.Second

// Janitor owns the cron schedule driving the sweep.
type Janitor struct {
	Store   *store.Store
	Pool    *workerpool.Pool
	Metrics *metrics.Exporter // may be nil
	cron    *cron.Cron
}

func New(st *store.Store, pool *workerpool.Pool, exporter *metrics.Exporter) *Janitor {
	return &Janitor{
		Store:   st,
		Pool:    pool,
		Metrics: exporter,
		cron:    cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the daily sweep and blocks until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(schedule, func() {
		j.runWithBackoff(ctx)
	}); err != nil {
		return err
	}
	j.cron.Start()
	slog.Info("janitor: scheduled", "cron", schedule)

	<-ctx.Done()
	stopCtx := j.cron.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

// runWithBackoff runs one sweep, retrying after errorBackoff if the sweep
// itself failed to complete (spec.md §4.7).
func (j *Janitor) runWithBackoff(ctx context.Context) {
	if err := j.Sweep(ctx); err != nil {
		slog.Error("janitor: sweep failed, will retry", "error", err, "backoff", errorBackoff)
		select {
		case <-time.After(errorBackoff):
			if err := j.Sweep(ctx); err != nil {
				slog.Error("janitor: retry sweep also failed", "error", err)
			}
		case <-ctx.Done():
		}
	}
}

// Sweep implements spec.md §4.7's per-binding decision: skip users with an
// open ticket or a ticket younger than idleAfter, else delete the group
// using the worker identity that created it.
func (j *Janitor) Sweep(ctx context.Context) (err error) {
	if j.Metrics != nil {
		defer func() { j.Metrics.RecordJanitorSweep(err) }()
	}

	bindings, err := j.Store.GetAllGroupBindings(ctx)
	if err != nil {
		return err
	}

	deleted := 0
	for _, b := range bindings {
		idle, ierr := j.isIdle(ctx, b.UserID)
		if ierr != nil {
			slog.Warn("janitor: failed to evaluate binding", "user_id", b.UserID, "error", ierr)
			continue
		}
		if !idle {
			continue
		}
		if derr := j.deleteGroup(ctx, b); derr != nil {
			slog.Warn("janitor: failed to delete group", "user_id", b.UserID, "group_id", b.GroupID, "error", derr)
			continue
		}
		if j.Metrics != nil {
			j.Metrics.RecordJanitorDeletion()
		}
		deleted++
	}

	slog.Info("janitor: sweep complete", "bindings", len(bindings), "deleted", deleted)
	return nil
}

func (j *Janitor) isIdle(ctx context.Context, userID int64) (bool, error) {
	open, err := j.Store.HasOpenTicket(ctx, userID)
	if err != nil {
		return false, err
	}
	if open {
		return false, nil
	}

	latest, ok, err := j.Store.GetLatestTicketCreatedTs(ctx, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return time.Since(time.Unix(latest, 0)) >= idleAfter, nil
}

// deleteGroup logs in as the creating identity, deletes the group chat, and
// removes its binding only on success (spec.md §4.7 step: the creating
// identity, warn+skip if unauthorized or missing).
func (j *Janitor) deleteGroup(ctx context.Context, b *store.OperatorGroupBinding) error {
	session, err := j.Pool.ByName(ctx, b.CreatedBy)
	if err != nil {
		slog.Warn("janitor: worker identity unavailable, skipping", "identity", b.CreatedBy, "user_id", b.UserID, "error", err)
		return nil
	}
	defer session.Release()

	chatID := -b.GroupID // undo the negation applied at creation time
	if _, err := session.API.MessagesDeleteChat(ctx, chatID); err != nil {
		return err
	}

	return j.Store.DeleteGroupBinding(ctx, b.UserID)
}
