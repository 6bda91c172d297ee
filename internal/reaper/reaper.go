// Package reaper sweeps availability days whose date has passed. Past days
// can no longer be booked, so keeping them only grows the collection.
package reaper

import (
	"context"
	"sync"
	"time"

	"github.com/Podhive/MVP/internal/availability/repository"
	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/model"
)

type Reaper struct {
	repo   repository.AvailabilityRepository
	cfg    *config.Config
	now    func() time.Time
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func New(repo repository.AvailabilityRepository, cfg *config.Config) *Reaper {
	return &Reaper{
		repo:   repo,
		cfg:    cfg,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
}

// Start sweeps once immediately to clear any backlog, then once a day at
// the configured hour until Stop is called or the context is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		r.sweep(ctx)

		timer := time.NewTimer(r.untilNextRun())
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				r.sweep(ctx)
				timer.Reset(r.untilNextRun())
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	r.cfg.Log.Info("Availability reaper started", "hour_utc", r.cfg.ReaperHour)
}

func (r *Reaper) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.cfg.Log.Info("Availability reaper stopped")
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := r.cutoff()

	deleted, err := r.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		r.cfg.Log.Error("Availability sweep failed", "cutoff", cutoff.Format(model.DateLayout), "error", err)
		return
	}

	r.cfg.Log.Info("Availability sweep complete",
		"cutoff", cutoff.Format(model.DateLayout),
		"deleted", deleted,
	)
}

// cutoff is the start of the current day: days strictly before it are
// unreachable by any booking and safe to delete.
func (r *Reaper) cutoff() time.Time {
	return model.StartOfDay(r.now().UTC())
}

// untilNextRun returns the duration until the next occurrence of the
// configured sweep hour, always in the future.
func (r *Reaper) untilNextRun() time.Duration {
	now := r.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), r.cfg.ReaperHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
