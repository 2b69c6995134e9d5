package store

import (
	"context"
	"testing"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/apperr"
)

type fakeStatsAPI struct {
	stats []api.Stat
	err   error
}

func (f *fakeStatsAPI) GetStats(ctx context.Context) ([]api.Stat, error) {
	return f.stats, f.err
}

func TestStatsFetchReplacesRows(t *testing.T) {
	f := &fakeStatsAPI{stats: []api.Stat{{Label: "Total Posts", Value: "3"}}}
	s := NewStatsStore(f)

	if s.Status() != StatusIdle {
		t.Fatalf("status = %v", s.Status())
	}
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := s.Stats(); len(got) != 1 || got[0].Label != "Total Posts" {
		t.Fatalf("stats = %+v", got)
	}
	if s.Status() != StatusSucceeded || s.LastUpdated().IsZero() {
		t.Fatalf("status = %v updated = %v", s.Status(), s.LastUpdated())
	}

	f.stats = []api.Stat{{Label: "Total Posts", Value: "4"}, {Label: "Total Views", Value: "10"}}
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if got := s.Stats(); len(got) != 2 {
		t.Fatalf("stats = %+v, want wholesale replacement", got)
	}
}

func TestStatsFailedFetchKeepsRows(t *testing.T) {
	f := &fakeStatsAPI{stats: []api.Stat{{Label: "Total Posts", Value: "3"}}}
	s := NewStatsStore(f)
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	f.err = apperr.New(apperr.KindNetwork, "connection refused")
	if err := s.Fetch(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
	if got := s.Stats(); len(got) != 1 {
		t.Fatalf("rows lost on failure: %+v", got)
	}
	if s.Status() != StatusFailed || s.Err() == "" {
		t.Fatalf("status = %v err = %q", s.Status(), s.Err())
	}
}
