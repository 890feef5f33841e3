package progress

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/adaptive"
	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/student"
)

func TestViewListsEveryTopic(t *testing.T) {
	m := student.New()
	m.RecordAnswer(curriculum.TopicLists, true, curriculum.Beginner, 0)
	p := New(m, adaptive.NewController(m, adaptive.DefaultConfig()))

	view := p.View(100, 40)
	for _, topic := range curriculum.AllTopics() {
		if !strings.Contains(view, topic.Label()) {
			t.Errorf("view missing topic %q", topic.Label())
		}
	}
	if !strings.Contains(view, "Overall: 1/1 correct") {
		t.Error("view missing overall total")
	}
	if !strings.Contains(view, "Not attempted yet") {
		t.Error("view missing unattempted marker")
	}
}

func TestViewFlagsReview(t *testing.T) {
	m := student.New()
	for range 3 {
		m.RecordAnswer(curriculum.TopicFunctions, false, curriculum.Beginner, 0)
	}
	p := New(m, adaptive.NewController(m, adaptive.DefaultConfig()))

	if !strings.Contains(p.View(100, 40), "Needs review!") {
		t.Error("expected review marker for a struggling topic")
	}
}

func TestEnterPops(t *testing.T) {
	m := student.New()
	p := New(m, adaptive.NewController(m, adaptive.DefaultConfig()))

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if nav, ok := cmd().(router.NavMsg); !ok || nav.Op != router.OpPop {
		t.Fatal("expected a pop")
	}
}

func TestMastered(t *testing.T) {
	cfg := adaptive.DefaultConfig()
	s := student.TopicSnapshot{
		Attempted:         cfg.MinAttempts,
		Correct:           cfg.MinAttempts,
		Accuracy:          1,
		CurrentDifficulty: curriculum.Advanced,
	}
	if !mastered(s, cfg) {
		t.Error("expected a perfect advanced topic to be mastered")
	}

	s.CurrentDifficulty = curriculum.Intermediate
	if mastered(s, cfg) {
		t.Error("intermediate topic should not be mastered")
	}

	s.CurrentDifficulty = curriculum.Advanced
	s.Attempted = cfg.MinAttempts - 1
	if mastered(s, cfg) {
		t.Error("too few attempts should not count as mastered")
	}
}
