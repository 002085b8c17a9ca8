// Package scheduler runs the gateway's periodic maintenance: purging expired
// entries from the in-memory cache and watching for a silent upstream.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/logging"
)

// Scheduler coordinates maintenance jobs with injected dependencies.
// purger may be nil when the cache backend expires entries natively.
type Scheduler struct {
	purger    interfaces.ExpiredPurger
	stats     interfaces.StatsSource
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler. A nil purger disables the purge job.
func NewScheduler(purger interfaces.ExpiredPurger, stats interfaces.StatsSource) *Scheduler {
	return &Scheduler{
		purger:    purger,
		stats:     stats,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers and launches the maintenance jobs.
func (s *Scheduler) Start() error {
	if s.purger != nil {
		_, err := s.scheduler.Every(10).Minutes().Do(func() {
			if purged := s.purger.PurgeExpired(); purged > 0 {
				logging.Debug("Purged expired cache entries", "count", purged)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule cache purge: %w", err)
		}
	}

	_, err := s.scheduler.Every(1).Hours().Do(s.watchUpstream)
	if err != nil {
		return fmt.Errorf("failed to schedule upstream watch: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops all maintenance jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// watchUpstream logs a warning when the most recent upstream interactions
// keep failing while traffic is flowing.
func (s *Scheduler) watchUpstream() {
	stats := s.stats.Stats()
	if stats.LastUpstreamError.IsZero() {
		return
	}
	if stats.LastUpstreamError.After(stats.LastUpstreamSuccess) {
		logging.Warn("Last upstream interaction failed",
			"last_error", stats.LastUpstreamError.Format(time.RFC3339),
			"last_success", formatTimeOrNever(stats.LastUpstreamSuccess),
		)
	}
}

func formatTimeOrNever(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}
