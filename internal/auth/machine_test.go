package auth

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/apperr"
	"github.com/existflow/inkwell/internal/model"
	"github.com/existflow/inkwell/internal/session"
)

// fakeAPI answers login/register with canned responses
type fakeAPI struct {
	resp *api.AuthResponse
	err  error
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	return f.resp, f.err
}

func (f *fakeAPI) Register(ctx context.Context, params api.RegisterParams) (*api.AuthResponse, error) {
	return f.resp, f.err
}

// testClock returns a read func and an advance func safe to use from
// the checker's goroutine
func testClock(at time.Time) (func() time.Time, func(time.Time)) {
	var mu sync.Mutex
	now := at
	read := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(t time.Time) {
		mu.Lock()
		defer mu.Unlock()
		now = t
	}
	return read, advance
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.New(filepath.Join(t.TempDir(), "session.json"))
}

func okResponse(expiry string) *api.AuthResponse {
	return &api.AuthResponse{
		User:          model.User{ID: "u1", Username: "alice", Email: "a@b.com"},
		Token:         "tok-1",
		SessionExpiry: expiry,
	}
}

func TestLoginSuccess(t *testing.T) {
	sessions := newTestStore(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock, _ := testClock(t0)

	m := NewWithClock(&fakeAPI{resp: okResponse("")}, sessions, clock)
	if err := m.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if m.State() != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", m.State())
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected authenticated")
	}
	if got := m.Token(); got != "tok-1" {
		t.Fatalf("token = %q", got)
	}
	// Missing server expiry defaults to 24h
	if got := m.SessionExpiry(); !got.Equal(t0.Add(DefaultSessionTTL)) {
		t.Fatalf("expiry = %v", got)
	}

	// Session must be mirrored to disk
	token, user, expiry := sessions.Read()
	if token != "tok-1" || user == nil || expiry.IsZero() {
		t.Fatalf("persisted session incomplete: %q %+v %v", token, user, expiry)
	}
}

func TestLoginFailureKeepsPersistedSession(t *testing.T) {
	sessions := newTestStore(t)
	existing := &model.User{ID: "u0", Username: "bob"}
	expiry := time.Now().Add(time.Hour)
	if err := sessions.Write("old-token", existing, expiry); err != nil {
		t.Fatalf("setup: %v", err)
	}

	m := New(&fakeAPI{err: apperr.New(apperr.KindAuth, "invalid credentials")}, sessions)
	if err := m.Login(context.Background(), "a@b.com", "wrong"); err == nil {
		t.Fatalf("expected login error")
	}

	if m.State() != StateAuthFailed {
		t.Fatalf("state = %v, want auth-failed", m.State())
	}
	if m.AuthError() == "" {
		t.Fatalf("expected an error message")
	}

	// A failed login never touches the persisted session
	token, _, _ := sessions.Read()
	if token != "old-token" {
		t.Fatalf("persisted token = %q, want old-token", token)
	}
}

func TestRegisterValidation(t *testing.T) {
	m := New(&fakeAPI{resp: okResponse("")}, newTestStore(t))

	cases := []struct {
		name   string
		params api.RegisterParams
	}{
		{"missing username", api.RegisterParams{Email: "a@b.com", Password: "longenough"}},
		{"missing email", api.RegisterParams{Username: "alice", Password: "longenough"}},
		{"bad email", api.RegisterParams{Username: "alice", Email: "nope", Password: "longenough"}},
		{"short password", api.RegisterParams{Username: "alice", Email: "a@b.com", Password: "short"}},
	}
	for _, tc := range cases {
		err := m.Register(context.Background(), tc.params)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("%s: err = %v, want validation error", tc.name, err)
		}
	}
}

func TestRegisterAutoLogin(t *testing.T) {
	sessions := newTestStore(t)
	m := New(&fakeAPI{resp: okResponse("")}, sessions)

	params := api.RegisterParams{Username: "alice", Email: "a@b.com", Password: "longenough"}
	if err := m.Register(context.Background(), params); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected authenticated after register")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	sessions := newTestStore(t)
	m := New(&fakeAPI{resp: okResponse("")}, sessions)
	if err := m.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if m.IsAuthenticated() || m.State() != StateAnonymous {
		t.Fatalf("expected anonymous after logout")
	}
	if token, user, _ := sessions.Read(); token != "" || user != nil {
		t.Fatalf("persisted session should be cleared")
	}
}

func TestCheckSessionExpiry(t *testing.T) {
	sessions := newTestStore(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock, advance := testClock(t0)

	resp := okResponse(t0.Add(24 * time.Hour).Format(time.RFC3339))
	m := NewWithClock(&fakeAPI{resp: resp}, sessions, clock)
	if err := m.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Still valid one second before expiry; repeated checks are safe
	advance(t0.Add(24*time.Hour - time.Second))
	for i := 0; i < 3; i++ {
		if err := m.CheckSession(); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected still authenticated")
	}

	// One second past expiry the session dies and storage is wiped
	advance(t0.Add(24*time.Hour + time.Second))
	err := m.CheckSession()
	if !apperr.IsKind(err, apperr.KindSessionExpired) {
		t.Fatalf("err = %v, want session expired", err)
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after expiry")
	}
	if token, user, _ := sessions.Read(); token != "" || user != nil {
		t.Fatalf("persisted session should be empty after expiry")
	}

	// Idempotent: a second check reports the same failure
	if err := m.CheckSession(); !apperr.IsKind(err, apperr.KindSessionExpired) {
		t.Fatalf("second check: %v", err)
	}
}

func TestBootstrapResumesValidSession(t *testing.T) {
	sessions := newTestStore(t)
	user := &model.User{ID: "u1", Username: "alice"}
	if err := sessions.Write("tok-1", user, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("setup: %v", err)
	}

	m := New(&fakeAPI{}, sessions)
	if !m.IsAuthenticated() {
		t.Fatalf("expected resumed session")
	}
	if u := m.CurrentUser(); u == nil || u.Username != "alice" {
		t.Fatalf("user = %+v", u)
	}
}

func TestBootstrapClearsExpiredSession(t *testing.T) {
	sessions := newTestStore(t)
	user := &model.User{ID: "u1", Username: "alice"}
	if err := sessions.Write("tok-1", user, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("setup: %v", err)
	}

	m := New(&fakeAPI{}, sessions)
	if m.IsAuthenticated() {
		t.Fatalf("expired session must not resume")
	}
	if token, u, _ := sessions.Read(); token != "" || u != nil {
		t.Fatalf("stale persisted session should be cleared at bootstrap")
	}
}
