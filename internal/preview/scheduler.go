package preview

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
)

// Scheduler runs periodic cache maintenance.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create gocron scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// SchedulePrune prunes the server's cache every interval and returns the job ID.
func (s *Scheduler) SchedulePrune(srv *Server, interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(srv.pruneCache),
		gocron.WithName("cache-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create cache prune job").
			WithContext("interval", interval.String()).
			Build()
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// pruneCache removes expired cache entries.
func (s *Server) pruneCache() {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	n, err := s.store.Prune(ctx)
	if err != nil {
		s.logger.Warn("Cache prune failed", logfields.Job("cache-prune"), logfields.Error(err))
		return
	}
	s.recorder.AddCachePruned(n)
	s.logger.Debug("Cache pruned", logfields.Job("cache-prune"), "entries", n, logfields.Since(start))
}
