// Package screen is the contract between the router and the views it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Screen is a full-window view. The app draws the header and footer; a
// screen renders only the body between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is notified when it is back on top of the stack after the
// screen above it was popped.
type Resumer interface {
	Resume() tea.Cmd
}
