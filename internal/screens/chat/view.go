package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/tutor"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const gutter = 13

func (c *ChatScreen) View(width, height int) string {
	prompt := c.input.View(width)
	transcriptHeight := max(height-lipgloss.Height(prompt)-1, 1)

	lines := c.transcriptLines(width - 2)
	end := max(len(lines)-c.scroll, 0)
	start := max(end-transcriptHeight, 0)
	visible := lines[start:end]

	var b strings.Builder
	for i := len(visible); i < transcriptHeight; i++ {
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n")
	b.WriteString(prompt)
	return b.String()
}

// transcriptLines renders every turn, plus the in-flight utterance, as
// wrapped lines.
func (c *ChatScreen) transcriptLines(width int) []string {
	var lines []string
	for _, t := range c.history {
		lines = append(lines, renderTurn(t, width)...)
		lines = append(lines, "")
	}
	if c.Busy() {
		lines = append(lines, renderTurn(tutor.Turn{Role: tutor.RoleUser, Content: c.pending}, width)...)
		lines = append(lines, "", " "+theme.Thinking.Render("Study Buddy is thinking..."))
	}
	return lines
}

func renderTurn(t tutor.Turn, width int) []string {
	label := theme.TutorLabel.Render("Study Buddy")
	if t.Role == tutor.RoleUser {
		label = theme.UserLabel.Render("You")
	}

	if layout.IsCompactWidth(width) {
		body := lipgloss.NewStyle().Width(max(width-2, 10)).Render(RenderMarkup(t.Content))
		return append([]string{" " + label}, indent(strings.Split(body, "\n"), "  ")...)
	}

	body := lipgloss.NewStyle().Width(max(width-gutter-1, 10)).Render(RenderMarkup(t.Content))
	bodyLines := strings.Split(body, "\n")
	out := make([]string, len(bodyLines))
	for i, l := range bodyLines {
		head := strings.Repeat(" ", gutter)
		if i == 0 {
			head = " " + label + strings.Repeat(" ", max(gutter-1-lipgloss.Width(label), 1))
		}
		out[i] = head + l
	}
	return out
}

func indent(lines []string, prefix string) []string {
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return lines
}

// RenderMarkup styles the tutor's lightweight markup: **bold** and
// *italic* spans. Unbalanced markers are printed as-is.
func RenderMarkup(s string) string {
	var out strings.Builder
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, "**"):
			if end := strings.Index(s[2:], "**"); end >= 0 {
				out.WriteString(theme.Strong.Render(s[2 : 2+end]))
				s = s[4+end:]
				continue
			}
		case s[0] == '*':
			if end := strings.IndexByte(s[1:], '*'); end > 0 && !strings.Contains(s[1:1+end], "\n") {
				out.WriteString(theme.Emphasis.Render(s[1 : 1+end]))
				s = s[2+end:]
				continue
			}
		}
		next := strings.IndexByte(s[1:], '*')
		if next < 0 {
			out.WriteString(s)
			break
		}
		out.WriteString(s[:1+next])
		s = s[1+next:]
	}
	return out.String()
}
