package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#3B82F6") // Python Blue
	Secondary = lipgloss.Color("#FACC15") // Python Yellow
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Strong = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Emphasis = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Conversation
var (
	UserLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	TutorLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Thinking = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)
)

// Progress
var (
	Mastered = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Review = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	InputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)
