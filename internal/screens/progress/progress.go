// Package progress shows per-topic accuracy and difficulty for the
// current session.
package progress

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/adaptive"
	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/student"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const labelWidth = 20

// ProgressScreen renders the learner profile. It reads the model on every
// View, so it always reflects the latest answers.
type ProgressScreen struct {
	student    *student.Model
	controller *adaptive.Controller
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen.
func New(m *student.Model, c *adaptive.Controller) *ProgressScreen {
	return &ProgressScreen{student: m, controller: c}
}

func (p *ProgressScreen) Init() tea.Cmd {
	return nil
}

func (p *ProgressScreen) Title() string {
	return "Progress"
}

func (p *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back to chat"},
	}
}

func (p *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "q", "ctrl+p":
			return p, router.Back()
		}
	}
	return p, nil
}

func (p *ProgressScreen) View(width, height int) string {
	cfg := p.controller.Config()
	barWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Your Progress"))
	b.WriteString("\n\n")

	for _, t := range curriculum.AllTopics() {
		s := p.student.TopicStats(t)
		bar := components.AccuracyBar{
			Label:      t.Label(),
			LabelWidth: labelWidth,
			Accuracy:   s.Accuracy,
			Attempted:  s.Attempted > 0,
			Promote:    cfg.PromoteThreshold,
			Demote:     cfg.DemoteThreshold,
			Width:      barWidth,
		}
		b.WriteString("  " + bar.View() + "\n")
		b.WriteString("  " + strings.Repeat(" ", labelWidth+2) + topicDetail(s, cfg) + "\n\n")
	}

	correct, attempted := p.student.Totals()
	b.WriteString("  " + theme.Strong.Render(fmt.Sprintf("Overall: %d/%d correct", correct, attempted)))
	b.WriteString("\n\n")
	b.WriteString("  " + theme.Hint.Render(p.controller.SessionFeedback()))

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func topicDetail(s student.TopicSnapshot, cfg adaptive.Config) string {
	if s.Attempted == 0 {
		return theme.Hint.Render("Not attempted yet")
	}
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d/%d correct · %s · %s", s.Correct, s.Attempted, s.CurrentDifficulty.Label(), recentMarks(s.LastNCorrect)))
	switch {
	case student.NeedsReview(s):
		detail += "  " + theme.Review.Render("Needs review!")
	case mastered(s, cfg):
		detail += "  " + theme.Mastered.Render("Mastered!")
	}
	return detail
}

// mastered reports a topic held at the top level with promotion-grade
// accuracy.
func mastered(s student.TopicSnapshot, cfg adaptive.Config) bool {
	return s.CurrentDifficulty == curriculum.Advanced &&
		s.Attempted >= cfg.MinAttempts &&
		s.Accuracy >= cfg.PromoteThreshold
}

// recentMarks renders the recent results oldest first, e.g. "✓✗✓".
func recentMarks(results []bool) string {
	var b strings.Builder
	for _, ok := range results {
		if ok {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("✓"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("✗"))
		}
	}
	return b.String()
}
