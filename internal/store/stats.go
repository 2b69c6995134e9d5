package store

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/inkwell/internal/api"
)

// StatsAPI is the slice of the platform client the stats store needs
type StatsAPI interface {
	GetStats(ctx context.Context) ([]api.Stat, error)
}

// StatsStore caches the dashboard engagement statistics. Same
// lifecycle discipline as the posts store: a failed fetch keeps the
// last good rows.
type StatsStore struct {
	mu  sync.Mutex
	api StatsAPI

	stats       []api.Stat
	status      Status
	err         string
	lastUpdated time.Time
}

// NewStatsStore creates a stats store
func NewStatsStore(apiClient StatsAPI) *StatsStore {
	return &StatsStore{
		api:    apiClient,
		status: StatusIdle,
	}
}

// Fetch loads the statistics, replacing the rows wholesale on success
func (s *StatsStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.err = ""
	s.mu.Unlock()

	stats, err := s.api.GetStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = StatusFailed
		s.err = err.Error()
		return err
	}

	s.stats = stats
	s.status = StatusSucceeded
	s.lastUpdated = time.Now()
	return nil
}

// Stats returns a copy of the current rows
func (s *StatsStore) Stats() []api.Stat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Stat(nil), s.stats...)
}

// Status returns the request lifecycle state
func (s *StatsStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the last error message, empty when none
func (s *StatsStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LastUpdated returns when the rows last changed
func (s *StatsStore) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}
