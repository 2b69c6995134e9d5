package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/inkwell/internal/logger"
)

// opTimeout bounds every network operation started from the TUI
const opTimeout = 15 * time.Second

// postsFetchedMsg reports a completed page fetch
type postsFetchedMsg struct{ err error }

// postOpenedMsg reports a completed single-post fetch
type postOpenedMsg struct{ err error }

// engagedMsg reports a completed like or comment operation
type engagedMsg struct{ err error }

// sessionExpiredMsg is sent when the periodic check detects expiry
type sessionExpiredMsg struct{}

// Init kicks off the first page fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPostsCmd(), m.waitForExpiry())
}

func (m Model) fetchPostsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return postsFetchedMsg{err: m.posts.FetchPosts(ctx)}
	}
}

func (m Model) openPostCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return postOpenedMsg{err: m.posts.FetchPost(ctx, id)}
	}
}

func (m Model) toggleLikeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := m.posts.ToggleLike(ctx, id)
		return engagedMsg{err: err}
	}
}

func (m Model) addCommentCmd(id, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return engagedMsg{err: m.posts.AddComment(ctx, id, content)}
	}
}

// waitForExpiry bridges the checker callback into the update loop
func (m Model) waitForExpiry() tea.Cmd {
	return func() tea.Msg {
		<-m.expiredCh
		return sessionExpiredMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case postsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			// Stale page stays visible; the status bar carries the error
			m.message = m.posts.Err()
		} else {
			m.message = ""
		}
		m.clampCursor()
		return m, nil

	case postOpenedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = msg.err.Error()
			return m, nil
		}
		m.mode = ModeRead
		m.message = ""
		return m, nil

	case engagedMsg:
		m.loading = false
		if msg.err != nil {
			m.message = msg.err.Error()
		} else {
			m.message = ""
		}
		return m, nil

	case sessionExpiredMsg:
		logger.Info("TUI exiting on session expiry")
		if m.checker != nil {
			m.checker.Stop()
		}
		m.message = "Session expired, please run 'inkwell auth login'"
		return m, tea.Quit

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeComment:
			return m.updateComment(msg)
		case ModeHelp:
			m.mode = ModeBrowse
			return m, nil
		case ModeRead:
			return m.updateRead(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if m.checker != nil {
			m.checker.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.posts.Posts())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Open):
		if p := m.currentPost(); p != nil {
			m.loading = true
			return m, m.openPostCmd(p.ID)
		}
		return m, nil

	case key.Matches(msg, keys.NextPage):
		// The store does not clamp pages; the view does it here
		pg := m.posts.Pagination()
		if pg.CurrentPage < pg.TotalPages {
			m.posts.SetPage(pg.CurrentPage + 1)
			m.cursor = 0
			m.loading = true
			return m, m.fetchPostsCmd()
		}
		return m, nil

	case key.Matches(msg, keys.PrevPage):
		pg := m.posts.Pagination()
		if pg.CurrentPage > 1 {
			m.posts.SetPage(pg.CurrentPage - 1)
			m.cursor = 0
			m.loading = true
			return m, m.fetchPostsCmd()
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		m.mode = ModeSearch
		m.input.Placeholder = "Search posts..."
		m.input.SetValue(m.posts.ActiveFilters().Search)
		m.input.Focus()
		return m, nil

	case key.Matches(msg, keys.Like):
		if p := m.currentPost(); p != nil && m.auth.IsAuthenticated() {
			m.loading = true
			return m, m.toggleLikeCmd(p.ID)
		}
		m.message = "log in to like posts"
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.fetchPostsCmd()

	case key.Matches(msg, keys.ClearFilters):
		m.posts.ClearFilters()
		m.cursor = 0
		m.loading = true
		return m, m.fetchPostsCmd()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	return m, nil
}

func (m Model) updateRead(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		m.mode = ModeBrowse
		m.posts.ClearViewing()
		return m, nil

	case key.Matches(msg, keys.Like):
		if p := m.posts.Viewing(); p != nil && m.auth.IsAuthenticated() {
			m.loading = true
			return m, m.toggleLikeCmd(p.ID)
		}
		m.message = "log in to like posts"
		return m, nil

	case key.Matches(msg, keys.Comment):
		if !m.auth.IsAuthenticated() {
			m.message = "log in to comment"
			return m, nil
		}
		m.mode = ModeComment
		m.input.Placeholder = "Write a comment..."
		m.input.SetValue("")
		m.input.Focus()
		return m, nil
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeBrowse
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.posts.SetSearch(m.input.Value())
		m.mode = ModeBrowse
		m.input.Blur()
		m.cursor = 0
		m.loading = true
		return m, m.fetchPostsCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeRead
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		p := m.posts.Viewing()
		content := m.input.Value()
		m.mode = ModeRead
		m.input.Blur()
		if p != nil {
			m.loading = true
			return m, m.addCommentCmd(p.ID, content)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
