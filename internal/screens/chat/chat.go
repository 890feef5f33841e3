// Package chat is the conversation screen: transcript above, prompt below.
package chat

import (
	"context"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/progress"
	"github.com/abhisek/studybuddy/internal/tutor"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Canned utterances sent by the quick-action keys.
const (
	QuickQuiz = "Quiz me"
	QuickHint = "Give me a hint"
)

const scrollStep = 5

// replyMsg carries the history after the tutor handled a turn.
type replyMsg struct {
	History []tutor.Turn
}

// ChatScreen implements screen.Screen for the tutoring conversation.
type ChatScreen struct {
	session *tutor.Session
	timeout time.Duration
	history []tutor.Turn
	input   components.TextInput

	// pending is the utterance being handled; "" when idle.
	pending string
	scroll  int
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.Resumer = (*ChatScreen)(nil)

// New creates a ChatScreen seeded with the session's greeting. timeout
// bounds each turn when > 0.
func New(s *tutor.Session, timeout time.Duration) *ChatScreen {
	return &ChatScreen{
		session: s,
		timeout: timeout,
		history: s.Greeting(),
		input:   components.NewTextInput("Ask about Python, or answer the question...", 500),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

// Resume refocuses the prompt and scrolls to the latest turn when the
// progress view closes.
func (c *ChatScreen) Resume() tea.Cmd {
	c.scroll = 0
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	return "Chat"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+Q", Description: "Quiz"},
		{Key: "Ctrl+T", Description: "Hint"},
		{Key: "Ctrl+P", Description: "Progress"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// History returns the transcript shown on screen.
func (c *ChatScreen) History() []tutor.Turn {
	return slices.Clone(c.history)
}

// Busy reports whether a turn is in flight.
func (c *ChatScreen) Busy() bool {
	return c.pending != ""
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		c.history = msg.History
		c.pending = ""
		c.scroll = 0
		return c, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return c.send(c.input.Take())
		case "ctrl+q":
			return c.send(QuickQuiz)
		case "ctrl+t":
			// Not ctrl+h: many terminals send it for backspace.
			return c.send(QuickHint)
		case "ctrl+p":
			if c.Busy() {
				return c, nil
			}
			scr := progress.New(c.session.Student(), c.session.Controller())
			return c, router.Push(scr)
		case "pgup":
			c.scroll += scrollStep
			return c, nil
		case "pgdown":
			c.scroll = max(c.scroll-scrollStep, 0)
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// send hands text to the tutor off the UI goroutine. Only one turn runs at
// a time; the session is not safe for concurrent use.
func (c *ChatScreen) send(text string) (screen.Screen, tea.Cmd) {
	if c.Busy() || strings.TrimSpace(text) == "" {
		return c, nil
	}
	c.pending = text
	c.scroll = 0

	sess := c.session
	history := slices.Clone(c.history)
	timeout := c.timeout
	return c, func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		out, _ := sess.Chat(ctx, text, history)
		return replyMsg{History: out}
	}
}
