// Package router keeps the TUI's screen stack. The chat sits at the bottom
// and the progress view is pushed over it.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/screen"
)

// Op is a change to the stack.
type Op int

const (
	OpPush Op = iota + 1
	OpPop
	OpReplace
)

// NavMsg asks the router to change the stack. Screen is ignored by OpPop.
type NavMsg struct {
	Op     Op
	Screen screen.Screen
}

// Push returns a command that opens s over the active screen.
func Push(s screen.Screen) tea.Cmd { return nav(OpPush, s) }

// Back returns a command that closes the active screen.
func Back() tea.Cmd { return nav(OpPop, nil) }

// Replace returns a command that swaps the active screen for s.
func Replace(s screen.Screen) tea.Cmd { return nav(OpReplace, s) }

func nav(op Op, s screen.Screen) tea.Cmd {
	return func() tea.Msg { return NavMsg{Op: op, Screen: s} }
}

// Router owns the screen stack and routes messages to the top screen.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active is the top screen.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies a NavMsg or hands msg to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if nm, ok := msg.(NavMsg); ok {
		return r.apply(nm)
	}
	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) apply(m NavMsg) tea.Cmd {
	switch m.Op {
	case OpPush:
		if m.Screen == nil {
			return nil
		}
		r.stack = append(r.stack, m.Screen)
		return m.Screen.Init()

	case OpPop:
		// The root screen is never popped.
		if len(r.stack) < 2 {
			return nil
		}
		r.stack[len(r.stack)-1] = nil
		r.stack = r.stack[:len(r.stack)-1]
		if res, ok := r.Active().(screen.Resumer); ok {
			return res.Resume()
		}
		return nil

	case OpReplace:
		if m.Screen == nil {
			return nil
		}
		if len(r.stack) == 0 {
			r.stack = append(r.stack, m.Screen)
		} else {
			r.stack[len(r.stack)-1] = m.Screen
		}
		return m.Screen.Init()
	}
	return nil
}

// View renders the active screen's body.
func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
