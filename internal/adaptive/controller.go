package adaptive

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/student"
)

// Transition triggers.
const (
	TriggerEmergency = "consecutive-misses"
	TriggerPromote   = "high-accuracy"
	TriggerDemote    = "low-accuracy"
)

// Transition records a difficulty change for display and event logging.
type Transition struct {
	Topic   curriculum.Topic
	From    curriculum.Difficulty
	To      curriculum.Difficulty
	Trigger string
}

// Controller computes recommendations from a student model. It keeps no
// state of its own.
type Controller struct {
	student *student.Model
	cfg     Config
}

// NewController creates a controller reading from m.
func NewController(m *student.Model, cfg Config) *Controller {
	return &Controller{student: m, cfg: cfg}
}

// Config returns the thresholds in use.
func (c *Controller) Config() Config {
	return c.cfg
}

// RecommendedDifficulty applies the transition rules to the topic's current
// stats without writing the result. Once AdjustDifficulty has run for the
// latest answer, the stored level is already the one to serve.
func (c *Controller) RecommendedDifficulty(topic curriculum.Topic) curriculum.Difficulty {
	to, _ := c.evaluate(topic)
	return to
}

func (c *Controller) evaluate(topic curriculum.Topic) (curriculum.Difficulty, string) {
	stats := c.student.TopicStats(topic)
	current := stats.CurrentDifficulty

	if stats.Attempted < c.cfg.MinAttempts {
		return current, ""
	}

	if c.missedLastN(topic) {
		return current.Demote(), TriggerEmergency
	}

	switch {
	case stats.Accuracy >= c.cfg.PromoteThreshold:
		return current.Promote(), TriggerPromote
	case stats.Accuracy <= c.cfg.DemoteThreshold:
		return current.Demote(), TriggerDemote
	}
	return current, ""
}

// missedLastN reports whether the last EmergencyWindow results are all
// incorrect.
func (c *Controller) missedLastN(topic curriculum.Topic) bool {
	n := c.cfg.EmergencyWindow
	if n <= 0 {
		return false
	}
	recent := c.student.RecentResults(topic, n)
	if len(recent) < n {
		return false
	}
	return !lo.Contains(recent, true)
}

// AdjustDifficulty recomputes the topic's level and writes it back to the
// model. It returns the change, or nil when the level stayed the same.
func (c *Controller) AdjustDifficulty(topic curriculum.Topic) *Transition {
	from := c.student.Difficulty(topic)
	to, trigger := c.evaluate(topic)
	c.student.UpdateDifficulty(topic, to)

	if to == from {
		return nil
	}
	slog.Debug("difficulty adjusted", "topic", topic, "from", from, "to", to, "trigger", trigger)
	return &Transition{Topic: topic, From: from, To: to, Trigger: trigger}
}

// RecommendedTopic picks the next topic: first any untouched topic, then
// the weakest topic if it is at or below the demote threshold, otherwise
// the least practiced topic.
func (c *Controller) RecommendedTopic() curriculum.Topic {
	topics := curriculum.AllTopics()

	for _, t := range topics {
		if c.student.TopicStats(t).Attempted == 0 {
			return t
		}
	}

	if weakest, ok := c.student.WeakestTopic(); ok {
		if c.student.TopicStats(weakest).Accuracy <= c.cfg.DemoteThreshold {
			return weakest
		}
	}

	return lo.MinBy(topics, func(a, b curriculum.Topic) bool {
		return c.student.TopicStats(a).Attempted < c.student.TopicStats(b).Attempted
	})
}

// HintLevel returns the escalation level for the next hint: one more than
// the hints already used, capped at MaxHintLevel.
func (c *Controller) HintLevel() int {
	return min(c.student.HintCount()+1, c.cfg.MaxHintLevel)
}

// ShouldOfferHint reports whether to nudge the learner toward a hint: a
// question is pending, no hint was used for it yet, and the last graded
// answer was wrong.
func (c *Controller) ShouldOfferHint() bool {
	if !c.student.QuizPending() || c.student.HintCount() > 0 {
		return false
	}
	last, ok := c.student.LastAttempt()
	if !ok {
		return false
	}
	return !last.Correct
}

// SessionFeedback summarizes strong and weak topics for the farewell.
func (c *Controller) SessionFeedback() string {
	var strong, weak []string
	for _, t := range curriculum.AllTopics() {
		s := c.student.TopicStats(t)
		if s.Attempted == 0 {
			continue
		}
		switch {
		case s.Accuracy >= c.cfg.PromoteThreshold:
			strong = append(strong, t.Label())
		case s.Accuracy <= c.cfg.DemoteThreshold:
			weak = append(weak, t.Label())
		}
	}

	var parts []string
	if len(strong) > 0 {
		parts = append(parts, fmt.Sprintf("Great work on: %s!", strings.Join(strong, ", ")))
	}
	if len(weak) > 0 {
		parts = append(parts, fmt.Sprintf("You might want to review: %s.", strings.Join(weak, ", ")))
	}
	if len(parts) == 0 {
		return "Keep practicing to build your Python skills!"
	}
	return strings.Join(parts, " ")
}
