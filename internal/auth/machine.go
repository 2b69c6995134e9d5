package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/existflow/inkwell/internal/api"
	"github.com/existflow/inkwell/internal/apperr"
	"github.com/existflow/inkwell/internal/logger"
	"github.com/existflow/inkwell/internal/model"
	"github.com/existflow/inkwell/internal/session"
)

// State is the auth machine's lifecycle state
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateAuthFailed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthFailed:
		return "auth-failed"
	default:
		return "anonymous"
	}
}

// DefaultSessionTTL applies when the server's auth response carries no
// expiry of its own.
const DefaultSessionTTL = 24 * time.Hour

// API is the slice of the platform client the machine needs
type API interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, params api.RegisterParams) (*api.AuthResponse, error)
}

// Machine owns the session lifecycle. The persistent store is a
// passive mirror: the machine writes it on every transition and reads
// it only at construction time and inside CheckSession.
type Machine struct {
	mu       sync.Mutex
	api      API
	sessions *session.Store
	now      func() time.Time

	state   State
	token   string
	user    *model.User
	expiry  time.Time
	lastErr string
}

// New creates a machine and bootstraps it from the persistent store.
// A persisted session that is complete and unexpired resumes as
// authenticated; anything else is cleared and starts anonymous.
func New(apiClient API, sessions *session.Store) *Machine {
	return NewWithClock(apiClient, sessions, time.Now)
}

// NewWithClock is New with an injected clock
func NewWithClock(apiClient API, sessions *session.Store, now func() time.Time) *Machine {
	m := &Machine{
		api:      apiClient,
		sessions: sessions,
		now:      now,
		state:    StateAnonymous,
	}

	token, user, expiry := sessions.Read()
	if token != "" && user != nil && !expiry.IsZero() && expiry.After(now()) {
		m.state = StateAuthenticated
		m.token = token
		m.user = user
		m.expiry = expiry
		logger.Info("Resumed session from disk", logger.F("user", user.Username))
	} else if token != "" || user != nil {
		// Stale leftovers must not survive bootstrap
		_ = sessions.Clear()
		logger.Debug("Cleared expired persisted session")
	}

	return m
}

// Login authenticates with the platform. On failure the persisted
// session is left untouched.
func (m *Machine) Login(ctx context.Context, email, password string) error {
	m.setState(StateAuthenticating, "")

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.setState(StateAuthFailed, loginMessage(err))
		return err
	}

	return m.establish(resp)
}

// Register creates an account and logs in with the returned session.
// Required fields are checked before any network call.
func (m *Machine) Register(ctx context.Context, params api.RegisterParams) error {
	if err := validateRegistration(params); err != nil {
		m.setState(StateAuthFailed, err.Error())
		return err
	}

	m.setState(StateAuthenticating, "")

	resp, err := m.api.Register(ctx, params)
	if err != nil {
		m.setState(StateAuthFailed, err.Error())
		return err
	}

	return m.establish(resp)
}

// establish persists the server's session and enters authenticated
func (m *Machine) establish(resp *api.AuthResponse) error {
	expiry := m.now().Add(DefaultSessionTTL)
	if resp.SessionExpiry != "" {
		if t, err := time.Parse(time.RFC3339, resp.SessionExpiry); err == nil {
			expiry = t
		}
	}

	user := resp.User
	if err := m.sessions.Write(resp.Token, &user, expiry); err != nil {
		// In-memory auth still holds; the session just won't survive restart
		logger.Warn("Failed to persist session", logger.F("error", err))
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.token = resp.Token
	m.user = &user
	m.expiry = expiry
	m.lastErr = ""
	m.mu.Unlock()

	logger.Info("Authenticated", logger.F("user", user.Username))
	return nil
}

// Logout clears the session locally and unconditionally. There is no
// server round-trip: the token simply ages out server-side.
func (m *Machine) Logout() error {
	err := m.sessions.Clear()

	m.mu.Lock()
	m.state = StateAnonymous
	m.token = ""
	m.user = nil
	m.expiry = time.Time{}
	m.lastErr = ""
	m.mu.Unlock()

	logger.Info("Logged out")
	return err
}

// CheckSession re-validates the persisted session against the clock.
// No network: the expiry comparison is purely local. An expired or
// missing session triggers a logout before the error is returned, so
// callers can redirect to login without extra cleanup. Safe to call
// repeatedly from a timer.
func (m *Machine) CheckSession() error {
	_, _, expiry := m.sessions.Read()
	if expiry.IsZero() || !expiry.After(m.now()) {
		_ = m.Logout()
		return apperr.New(apperr.KindSessionExpired, "session expired, please log in again")
	}

	// Re-affirm authenticated with the persisted values
	token, user, _ := m.sessions.Read()
	m.mu.Lock()
	m.state = StateAuthenticated
	m.token = token
	m.user = user
	m.expiry = expiry
	m.mu.Unlock()
	return nil
}

// State returns the current lifecycle state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated is true iff token, user and expiry are all present
// and the expiry is strictly in the future at the time of the call.
func (m *Machine) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil && !m.expiry.IsZero() && m.expiry.After(m.now())
}

// CurrentUser returns a copy of the logged-in user, or nil
func (m *Machine) CurrentUser() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns the bearer credential, empty when anonymous. Suitable
// as an api.Client TokenFunc.
func (m *Machine) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// SessionExpiry returns the current session's expiry time
func (m *Machine) SessionExpiry() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiry
}

// AuthError returns the last failure message, empty when none
func (m *Machine) AuthError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Machine) setState(state State, errMsg string) {
	m.mu.Lock()
	m.state = state
	m.lastErr = errMsg
	m.mu.Unlock()
}

// loginMessage keeps credential failures human-readable
func loginMessage(err error) string {
	if apperr.IsKind(err, apperr.KindAuth) {
		return "invalid email or password"
	}
	return err.Error()
}

// validateRegistration rejects incomplete registrations client-side
func validateRegistration(params api.RegisterParams) error {
	var missing []string
	if strings.TrimSpace(params.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(params.Email) == "" {
		missing = append(missing, "email")
	}
	if params.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(params.Email, "@") {
		return apperr.Validation("invalid email address")
	}
	if len(params.Password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}
