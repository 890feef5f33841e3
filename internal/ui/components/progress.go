package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// AccuracyBar displays a topic's accuracy as a horizontal bar. The fill
// color follows the promote and demote thresholds.
type AccuracyBar struct {
	Label      string
	LabelWidth int
	Accuracy   float64
	Attempted  bool
	Promote    float64
	Demote     float64
	Width      int
}

// View renders the bar.
func (p AccuracyBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(p.LabelWidth).
		Render(p.Label)

	const percentWidth = 6
	barWidth := max(p.Width-lipgloss.Width(label)-percentWidth-2, 4)

	filled := min(max(int(float64(barWidth)*p.Accuracy), 0), barWidth)
	empty := barWidth - filled

	fill := theme.Secondary
	switch {
	case !p.Attempted:
	case p.Accuracy >= p.Promote:
		fill = theme.Success
	case p.Accuracy <= p.Demote:
		fill = theme.Error
	}

	bar := lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	pct := "   --"
	if p.Attempted {
		pct = fmt.Sprintf("%4d%%", int(p.Accuracy*100))
	}
	return label + "  " + bar + lipgloss.NewStyle().Foreground(theme.TextDim).Render(" "+pct)
}
