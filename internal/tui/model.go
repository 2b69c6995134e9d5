package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/inkwell/internal/auth"
	"github.com/existflow/inkwell/internal/logger"
	"github.com/existflow/inkwell/internal/model"
	"github.com/existflow/inkwell/internal/store"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeBrowse Mode = iota
	ModeRead
	ModeSearch
	ModeComment
	ModeHelp
)

// Model is the main TUI model. All blog state lives in the injected
// stores; the model holds only view concerns (cursor, mode, input).
type Model struct {
	auth     *auth.Machine
	posts    *store.Store
	checker  *auth.Checker
	pageSize int

	// Channel bridging the session checker's expiry callback into
	// the bubbletea loop
	expiredCh chan struct{}

	width  int
	height int
	mode   Mode
	cursor int

	input   textinput.Model
	message string
	loading bool
}

// NewModel creates the TUI model
func NewModel(machine *auth.Machine, posts *store.Store, pageSize int) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Search posts..."
	ti.CharLimit = 120
	ti.Width = 40

	m := Model{
		auth:      machine,
		posts:     posts,
		pageSize:  pageSize,
		expiredCh: make(chan struct{}, 1),
		mode:      ModeBrowse,
		input:     ti,
	}

	if machine.IsAuthenticated() {
		m.checker = auth.NewChecker(machine, auth.DefaultCheckInterval, func() {
			select {
			case m.expiredCh <- struct{}{}:
			default:
			}
		})
		m.checker.Start()
		logger.Info("Session checker started")
	}

	return m
}

// currentPost returns the post under the cursor, nil when the page is
// empty
func (m *Model) currentPost() *model.Post {
	posts := m.posts.Posts()
	if m.cursor < 0 || m.cursor >= len(posts) {
		return nil
	}
	p := posts[m.cursor]
	return &p
}

// clampCursor keeps the cursor inside the current page
func (m *Model) clampCursor() {
	n := len(m.posts.Posts())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
