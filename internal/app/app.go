package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/chat"
	"github.com/abhisek/studybuddy/internal/screens/welcome"
	"github.com/abhisek/studybuddy/internal/tutor"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Session *tutor.Session

	// TurnTimeout bounds each tutor turn when > 0.
	TurnTimeout time.Duration

	// SkipSplash starts directly on the chat screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *tutor.Session
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	chatFactory := func() screen.Screen {
		return chat.New(opts.Session, opts.TurnTimeout)
	}
	var first screen.Screen
	if opts.SkipSplash {
		first = chatFactory()
	} else {
		first = welcome.New(chatFactory)
	}
	return AppModel{
		router:  router.New(first),
		session: opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Back()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(m.status(title), m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// status summarizes the session for the header.
func (m AppModel) status(title string) layout.Status {
	st := m.session.Student()
	s := layout.Status{Title: title}
	s.Correct, s.Attempted = st.Totals()
	if q := st.CurrentQuiz(); q != nil {
		s.Quiz = q.Topic.Label() + " · " + q.Difficulty.Label()
	}
	return s
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Session == nil {
		return fmt.Errorf("app: session is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
