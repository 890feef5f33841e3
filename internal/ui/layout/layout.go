// Package layout draws the frame around every screen: a status header, the
// screen body and a key-hint footer.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	// CompactWidth is the width below which the chat drops the speaker
	// gutter and prints labels on their own line.
	CompactWidth = 90
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is what the header reports about the session.
type Status struct {
	Title string

	// Quiz describes the question awaiting an answer, e.g. "Lists ·
	// Beginner". Empty when none is pending.
	Quiz string

	Correct   int
	Attempted int
}

func IsCompactWidth(width int) bool {
	return width < CompactWidth
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small!\n\nResize to at least %d x %d\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader lays out the app name on the left, the screen title in the
// middle and the pending quiz plus score on the right.
func RenderHeader(s Status, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Study Buddy")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(s.Title)

	right := lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d/%d", s.Correct, s.Attempted))
	if s.Quiz != "" && !IsCompactWidth(width) {
		right = theme.Hint.Render("? "+s.Quiz) + "  " + right
	}

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	line := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return bar.Width(width).Render(line)
}

// RenderFooter lists key hints separated by wide gaps.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, clipping the body to the
// height left between them.
func RenderFrame(header, body, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	clipped := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, clipped, footer)
}
