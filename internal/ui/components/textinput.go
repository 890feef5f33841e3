package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// TextInput is the single-line prompt under the conversation. It keeps the
// submitted lines so Up and Down can recall them.
type TextInput struct {
	Model   textinput.Model
	history []string
	cursor  int
}

// NewTextInput creates a focused prompt. charLimit <= 0 means unlimited.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles history recall and forwards everything else.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && len(t.history) > 0 {
		switch kmsg.String() {
		case "up":
			t.cursor = max(t.cursor-1, 0)
			t.Model.SetValue(t.history[t.cursor])
			t.Model.CursorEnd()
			return t, nil
		case "down":
			t.cursor = min(t.cursor+1, len(t.history))
			if t.cursor == len(t.history) {
				t.Model.SetValue("")
			} else {
				t.Model.SetValue(t.history[t.cursor])
			}
			t.Model.CursorEnd()
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the prompt in its box.
func (t TextInput) View(width int) string {
	return theme.InputBox.Width(max(width-2, 10)).Render(t.Model.View())
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Take returns the current value, records it for recall and clears the
// prompt. Blank values are returned but not recorded.
func (t *TextInput) Take() string {
	v := t.Model.Value()
	if strings.TrimSpace(v) != "" {
		t.history = append(t.history, v)
	}
	t.cursor = len(t.history)
	t.Model.Reset()
	return v
}
