package scheduler

import (
	"testing"
	"time"

	"github.com/medregistry/search-gateway/interfaces"
)

type stubPurger struct {
	purged int
}

func (s *stubPurger) PurgeExpired() int {
	return s.purged
}

type stubStats struct {
	stats interfaces.SearchStats
}

func (s *stubStats) Stats() interfaces.SearchStats {
	return s.stats
}

func TestStartRegistersMaintenanceJobs(t *testing.T) {
	s := NewScheduler(&stubPurger{}, &stubStats{})
	if err := s.Start(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer s.Stop()

	if got := s.scheduler.Len(); got != 2 {
		t.Errorf("Expected 2 scheduled jobs, got %d", got)
	}
}

func TestStartWithoutPurgerSkipsPurgeJob(t *testing.T) {
	s := NewScheduler(nil, &stubStats{})
	if err := s.Start(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer s.Stop()

	if got := s.scheduler.Len(); got != 1 {
		t.Errorf("Expected only the upstream watch job, got %d", got)
	}
}

func TestWatchUpstreamHandlesAllStates(t *testing.T) {
	// None of these may panic; the warning itself only goes to the log.
	states := []interfaces.SearchStats{
		{},
		{LastUpstreamSuccess: time.Now()},
		{LastUpstreamError: time.Now()},
		{LastUpstreamSuccess: time.Now().Add(-time.Hour), LastUpstreamError: time.Now()},
		{LastUpstreamSuccess: time.Now(), LastUpstreamError: time.Now().Add(-time.Hour)},
	}

	for _, stats := range states {
		s := NewScheduler(nil, &stubStats{stats: stats})
		s.watchUpstream()
	}
}

func TestFormatTimeOrNever(t *testing.T) {
	if got := formatTimeOrNever(time.Time{}); got != "never" {
		t.Errorf("Expected never, got %s", got)
	}

	ts := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	if got := formatTimeOrNever(ts); got != "2026-03-01T10:00:00Z" {
		t.Errorf("Expected RFC3339 timestamp, got %s", got)
	}
}
