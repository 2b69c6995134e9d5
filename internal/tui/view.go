package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/inkwell/internal/store"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeRead, ModeComment:
		content = m.renderPost()
	case ModeHelp:
		content = m.renderHelp()
	default:
		content = m.renderList()
	}

	if m.mode == ModeSearch || m.mode == ModeComment {
		modal := ModalStyle.Render(m.input.View())
		content = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderList() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Inkwell") + "\n")
	if f := m.posts.ActiveFilters(); f.Category != "" || f.Search != "" || len(f.Tags) > 0 {
		s.WriteString(MetaStyle.Render(describeFilters(f)) + "\n")
	}
	s.WriteString(MetaStyle.Render(strings.Repeat("─", min(m.width-4, 60))) + "\n\n")

	posts := m.posts.Posts()
	if len(posts) == 0 {
		if m.posts.Status() == store.StatusLoading || m.loading {
			s.WriteString(HelpStyle.Render("  Fetching posts..."))
		} else {
			s.WriteString(HelpStyle.Render("  No posts. Press 'C' to clear filters or 'r' to refresh."))
		}
	}

	for i, p := range posts {
		style := PostItemStyle
		cursor := "  "
		if i == m.cursor {
			style = PostItemSelectedStyle
			cursor = "❯ "
		}

		line := fmt.Sprintf("%s%-44s %s", cursor, truncate(p.Title, 44), MetaStyle.Render(p.Author.DisplayName()))
		s.WriteString(style.Render(line) + "\n")

		meta := fmt.Sprintf("    %s  %s  %s",
			LikeStyle.Render(fmt.Sprintf("♥ %d", len(p.Likes))),
			MetaStyle.Render(fmt.Sprintf("💬 %d", len(p.Comments))),
			TagStyle.Render(tagLine(p.Tags)))
		s.WriteString(meta + "\n")
	}

	return BodyStyle.Width(m.width).Height(m.height - 2).Render(s.String())
}

func (m Model) renderPost() string {
	p := m.posts.Viewing()
	if p == nil {
		return BodyStyle.Render("Post not loaded.")
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render(p.Title) + "\n")
	s.WriteString(MetaStyle.Render(fmt.Sprintf("by %s in %s — %s",
		p.Author.DisplayName(), p.Category.Name,
		p.CreatedAt.Local().Format("Jan 2, 2006"))) + "\n")
	s.WriteString(TagStyle.Render(tagLine(p.Tags)) + "\n\n")

	s.WriteString(wrap(p.Content, min(m.width-6, 80)) + "\n\n")

	likedMark := ""
	if u := m.auth.CurrentUser(); u != nil && p.LikedBy(u.ID) {
		likedMark = " (you)"
	}
	s.WriteString(LikeStyle.Render(fmt.Sprintf("♥ %d%s", len(p.Likes), likedMark)))
	s.WriteString(MetaStyle.Render(fmt.Sprintf("   💬 %d   %d views", len(p.Comments), p.Views)) + "\n\n")

	for _, c := range p.Comments {
		line := fmt.Sprintf("%s %s\n%s",
			TitleStyle.Render(c.User.DisplayName()),
			MetaStyle.Render(c.CreatedAt.Local().Format("Jan 2 15:04")),
			wrap(c.Content, min(m.width-10, 76)))
		s.WriteString(CommentStyle.Render(line) + "\n\n")
	}

	return BodyStyle.Width(m.width).Height(m.height - 2).Render(s.String())
}

func (m Model) renderHelp() string {
	rows := []string{
		"↑/k ↓/j   move",
		"enter     read post",
		"n / p     next / previous page",
		"/         search",
		"l         toggle like",
		"c         comment (while reading)",
		"r         refresh",
		"C         clear filters",
		"q / esc   back / quit",
	}
	return BodyStyle.Render(TitleStyle.Render("Keys") + "\n\n" + strings.Join(rows, "\n"))
}

func (m Model) renderStatusBar() string {
	pg := m.posts.Pagination()
	left := fmt.Sprintf("page %d/%d · %d posts", pg.CurrentPage, max(pg.TotalPages, 1), pg.TotalPosts)

	who := "anonymous"
	if u := m.auth.CurrentUser(); u != nil {
		who = u.Username
	}

	status := ""
	if m.loading || m.posts.Status() == store.StatusLoading {
		status = " · loading..."
	}
	if m.message != "" {
		status = " · " + ErrorStyle.Render(m.message)
	}

	return StatusBarStyle.Width(m.width).Render(
		fmt.Sprintf("%s · %s%s · ? help", left, who, status))
}

func describeFilters(f store.Filters) string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, "category: "+f.Category)
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(f.Tags, ","))
	}
	if f.Search != "" {
		parts = append(parts, "search: "+f.Search)
	}
	return "filters — " + strings.Join(parts, " · ")
}

func tagLine(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// wrap folds text to the given width on word boundaries
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(s) {
		if lineLen > 0 && lineLen+len(word)+1 > width {
			out.WriteString("\n")
			lineLen = 0
		} else if lineLen > 0 {
			out.WriteString(" ")
			lineLen++
		}
		out.WriteString(word)
		lineLen += len(word)
	}
	return out.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
