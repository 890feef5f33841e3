package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "chat" }
func (s *stubScreen) Title() string                          { return "Chat" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for range n {
		w.Update(tickMsg(time.Now()))
	}
}

func TestBannerAppearsAfterDelay(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(80, 24), tagline) {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 5)
	if !strings.Contains(w.View(80, 24), tagline) {
		t.Error("tagline should be visible after the banner delay")
	}
	if strings.Contains(w.View(80, 24), "press any key") {
		t.Error("start hint should wait for the full animation")
	}

	sendTicks(w, 20)
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
	if !strings.Contains(w.View(80, 24), "press any key") {
		t.Error("start hint should be visible after the animation")
	}
}

func TestKeypressReplacesScreen(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger the transition")
	}
	msg, ok := cmd().(router.NavMsg)
	if !ok || msg.Op != router.OpReplace {
		t.Fatal("expected a replace")
	}
	if msg.Screen == nil {
		t.Error("replacement screen should not be nil")
	}
	if *calls != 1 {
		t.Errorf("factory should be called once, got %d", *calls)
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 40)
	if *calls != 0 {
		t.Errorf("factory should not be called without a keypress, got %d", *calls)
	}
}

func TestTransitionOnlyOnce(t *testing.T) {
	w, calls := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *calls != 1 {
		t.Errorf("factory should be called exactly once, got %d", *calls)
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(20), bannerCompact) {
		t.Error("narrow terminals should get the compact banner")
	}
}
