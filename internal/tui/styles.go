package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Accent    = lipgloss.Color("#FFB347")
	LikeColor = lipgloss.Color("#FF6B6B")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	PostItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	PostItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	MetaStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	TagStyle = lipgloss.NewStyle().
			Foreground(Accent)

	LikeStyle = lipgloss.NewStyle().
			Foreground(LikeColor)

	BodyStyle = lipgloss.NewStyle().
			Padding(1, 2)

	CommentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(LikeColor)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)
