package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestSizes(t *testing.T) {
	assert.True(t, IsTooSmall(59, 30))
	assert.True(t, IsTooSmall(80, 19))
	assert.False(t, IsTooSmall(60, 20))
	assert.True(t, IsCompactWidth(89))
	assert.False(t, IsCompactWidth(90))
}

func TestRenderHeader(t *testing.T) {
	s := Status{Title: "Chat", Quiz: "Lists · Beginner", Correct: 2, Attempted: 3}

	wide := RenderHeader(s, 120)
	assert.Contains(t, wide, "Study Buddy")
	assert.Contains(t, wide, "Chat")
	assert.Contains(t, wide, "✓ 2/3")
	assert.Contains(t, wide, "Lists · Beginner")

	narrow := RenderHeader(s, 70)
	assert.NotContains(t, narrow, "Lists · Beginner")
	assert.Contains(t, narrow, "✓ 2/3")
}

func TestRenderFooter(t *testing.T) {
	out := RenderFooter([]KeyHint{{Key: "Enter", Description: "Send"}, {Key: "Esc", Description: "Back"}}, 80)
	assert.Contains(t, out, "Enter")
	assert.Contains(t, out, "Back")
}

func TestRenderFrame(t *testing.T) {
	header := RenderHeader(Status{Title: "Chat"}, 80)
	footer := RenderFooter(nil, 80)
	body := strings.Repeat("line\n", 100)

	out := RenderFrame(header, body, footer, 80, 24)
	assert.Equal(t, 24, lipgloss.Height(out))
}

func TestRenderMinSizeMessage(t *testing.T) {
	out := RenderMinSizeMessage(40, 10)
	assert.Contains(t, out, "Terminal too small!")
	assert.Contains(t, out, "now 40 x 10")
}
