package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/inkwell/internal/model"
)

// Store persists the login session (token, user, expiry) to a single
// JSON file. It is a passive mirror of the auth machine's state: read
// once at startup, rewritten on every auth transition.
type Store struct {
	path string
}

type fileLayout struct {
	Token         string      `json:"token"`
	User          *model.User `json:"user"`
	SessionExpiry string      `json:"session_expiry"` // RFC 3339
}

// DefaultPath returns the default session file path (~/.inkwell/session.json)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".inkwell", "session.json"), nil
}

// New creates a store backed by the given file path
func New(path string) *Store {
	return &Store{path: path}
}

// NewDefault creates a store at the default path
func NewDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return New(path), nil
}

// Read returns the persisted session fields. A missing or malformed
// file yields zero values, never an error.
func (s *Store) Read() (token string, user *model.User, expiry time.Time) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, time.Time{}
	}

	var f fileLayout
	if err := json.Unmarshal(data, &f); err != nil {
		return "", nil, time.Time{}
	}

	if f.SessionExpiry != "" {
		// A bad timestamp means the record is unusable as a whole
		t, err := time.Parse(time.RFC3339, f.SessionExpiry)
		if err != nil {
			return "", nil, time.Time{}
		}
		expiry = t
	}

	return f.Token, f.User, expiry
}

// Write persists all three fields in one file write
func (s *Store) Write(token string, user *model.User, expiry time.Time) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	f := fileLayout{
		Token: token,
		User:  user,
	}
	if !expiry.IsZero() {
		f.SessionExpiry = expiry.Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
