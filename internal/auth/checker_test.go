package auth

import (
	"context"
	"testing"
	"time"
)

func TestCheckerDetectsExpiry(t *testing.T) {
	sessions := newTestStore(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock, advance := testClock(t0)

	m := NewWithClock(&fakeAPI{resp: okResponse("")}, sessions, clock)
	if err := m.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	expired := make(chan struct{})
	c := NewChecker(m, 5*time.Millisecond, func() { close(expired) })
	c.Start()
	defer c.Stop()

	advance(t0.Add(DefaultSessionTTL + time.Second))

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatalf("checker never reported expiry")
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected logout after expiry")
	}
}

func TestCheckerStartStopIdempotent(t *testing.T) {
	m := New(&fakeAPI{resp: okResponse("")}, newTestStore(t))
	c := NewChecker(m, time.Millisecond, nil)

	c.Start()
	c.Start()
	c.Stop()
	c.Stop()

	// Restart after stop works
	c.Start()
	c.Stop()
}
