// Package student tracks a learner's per-topic performance for one session.
package student

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/questionbank"
)

// RecentWindow is how many recent results TopicSnapshot.LastNCorrect holds.
const RecentWindow = 5

// ReviewAccuracy and ReviewMinAttempts decide when the progress report
// flags a topic as needing review.
const (
	ReviewAccuracy    = 0.4
	ReviewMinAttempts = 3
)

// TopicStats is the mutable performance record for one topic.
type TopicStats struct {
	Attempted         int
	Correct           int
	CurrentDifficulty curriculum.Difficulty
	HintsUsed         int
	History           []bool // graded results, oldest first
}

// Accuracy returns Correct/Attempted, or 0.0 when nothing was attempted.
func (s *TopicStats) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0.0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

// Attempt is one graded answer in the session log.
type Attempt struct {
	Topic      curriculum.Topic
	Correct    bool
	Difficulty curriculum.Difficulty
	HintsUsed  int
}

// TopicSnapshot is a read-only view of a topic's stats.
type TopicSnapshot struct {
	Attempted         int
	Correct           int
	Accuracy          float64
	CurrentDifficulty curriculum.Difficulty
	HintsUsed         int
	LastNCorrect      []bool // at most RecentWindow results, oldest first
}

// Model is the learner profile for a single conversation. It is owned by
// exactly one session and is not safe for concurrent use.
type Model struct {
	topics      map[curriculum.Topic]*TopicStats
	history     []Attempt
	currentQuiz *questionbank.Question
	hintCount   int
}

// New creates a profile with every topic unattempted at beginner level.
func New() *Model {
	m := &Model{topics: make(map[curriculum.Topic]*TopicStats)}
	for _, t := range curriculum.AllTopics() {
		m.topics[t] = &TopicStats{CurrentDifficulty: curriculum.Beginner}
	}
	return m
}

// RecordAnswer logs a graded answer. Unknown topics only reach the session
// log; the per-topic table is closed.
func (m *Model) RecordAnswer(topic curriculum.Topic, correct bool, difficulty curriculum.Difficulty, hintsUsed int) {
	m.history = append(m.history, Attempt{
		Topic:      topic,
		Correct:    correct,
		Difficulty: difficulty,
		HintsUsed:  hintsUsed,
	})

	stats, ok := m.topics[topic]
	if !ok {
		slog.Warn("answer recorded for unknown topic", "topic", topic)
		return
	}
	stats.Attempted++
	if correct {
		stats.Correct++
	}
	stats.History = append(stats.History, correct)
	stats.HintsUsed += hintsUsed
}

// TopicStats returns a snapshot of one topic. Unknown topics report zero
// attempts at beginner level.
func (m *Model) TopicStats(topic curriculum.Topic) TopicSnapshot {
	stats, ok := m.topics[topic]
	if !ok {
		return TopicSnapshot{CurrentDifficulty: curriculum.Beginner, LastNCorrect: []bool{}}
	}

	recent := stats.History
	if len(recent) > RecentWindow {
		recent = recent[len(recent)-RecentWindow:]
	}

	return TopicSnapshot{
		Attempted:         stats.Attempted,
		Correct:           stats.Correct,
		Accuracy:          stats.Accuracy(),
		CurrentDifficulty: stats.CurrentDifficulty,
		HintsUsed:         stats.HintsUsed,
		LastNCorrect:      append([]bool{}, recent...),
	}
}

// Difficulty returns the current level for a topic.
func (m *Model) Difficulty(topic curriculum.Topic) curriculum.Difficulty {
	return m.TopicStats(topic).CurrentDifficulty
}

// RecentResults returns up to n of the most recent results for a topic,
// oldest first.
func (m *Model) RecentResults(topic curriculum.Topic, n int) []bool {
	stats, ok := m.topics[topic]
	if !ok || n <= 0 {
		return nil
	}
	h := stats.History
	if len(h) > n {
		h = h[len(h)-n:]
	}
	return append([]bool(nil), h...)
}

// WeakestTopic returns the attempted topic with the lowest accuracy. Ties
// go to the earlier topic in fixed order. It reports false when nothing
// has been attempted.
func (m *Model) WeakestTopic() (curriculum.Topic, bool) {
	var weakest curriculum.Topic
	found := false
	lowest := 0.0

	for _, t := range curriculum.AllTopics() {
		stats := m.topics[t]
		if stats.Attempted == 0 {
			continue
		}
		if !found || stats.Accuracy() < lowest {
			weakest, lowest, found = t, stats.Accuracy(), true
		}
	}
	return weakest, found
}

// UpdateDifficulty sets the current level for a topic.
func (m *Model) UpdateDifficulty(topic curriculum.Topic, level curriculum.Difficulty) {
	if stats, ok := m.topics[topic]; ok {
		stats.CurrentDifficulty = level
	}
}

// SetCurrentQuiz marks q as the pending question and resets the hint count.
func (m *Model) SetCurrentQuiz(q *questionbank.Question) {
	m.currentQuiz = q
	m.hintCount = 0
}

// ClearCurrentQuiz drops the pending question and resets the hint count.
func (m *Model) ClearCurrentQuiz() {
	m.currentQuiz = nil
	m.hintCount = 0
}

// CurrentQuiz returns the pending question, or nil.
func (m *Model) CurrentQuiz() *questionbank.Question {
	return m.currentQuiz
}

// QuizPending reports whether a question is awaiting an answer.
func (m *Model) QuizPending() bool {
	return m.currentQuiz != nil
}

// HintCount returns the hints consumed for the pending question.
func (m *Model) HintCount() int {
	return m.hintCount
}

// UseHint records one more hint for the pending question and returns the
// new count.
func (m *Model) UseHint() int {
	m.hintCount++
	return m.hintCount
}

// SessionHistory returns the graded attempts in order.
func (m *Model) SessionHistory() []Attempt {
	return append([]Attempt(nil), m.history...)
}

// LastAttempt returns the most recent graded attempt.
func (m *Model) LastAttempt() (Attempt, bool) {
	if len(m.history) == 0 {
		return Attempt{}, false
	}
	return m.history[len(m.history)-1], true
}

// Totals returns correct and attempted counts across all topics.
func (m *Model) Totals() (correct, attempted int) {
	for _, stats := range m.topics {
		correct += stats.Correct
		attempted += stats.Attempted
	}
	return correct, attempted
}

// NeedsReview reports whether a topic is struggling enough to flag.
func NeedsReview(s TopicSnapshot) bool {
	return s.Accuracy <= ReviewAccuracy && s.Attempted >= ReviewMinAttempts
}

// ProgressSummary renders one line per topic in fixed order plus an overall
// total once anything has been attempted.
func (m *Model) ProgressSummary() string {
	var lines []string
	for _, t := range curriculum.AllTopics() {
		s := m.TopicStats(t)
		if s.Attempted == 0 {
			lines = append(lines, fmt.Sprintf("  %s: Not attempted yet", t.Label()))
			continue
		}
		marker := ""
		if NeedsReview(s) {
			marker = " - Needs review!"
		}
		lines = append(lines, fmt.Sprintf("  %s: %d/%d correct (%.0f%%) - %s%s",
			t.Label(), s.Correct, s.Attempted, s.Accuracy*100, s.CurrentDifficulty.Label(), marker))
	}

	correct, attempted := m.Totals()
	if attempted > 0 {
		lines = append(lines, "", fmt.Sprintf("  Overall: %d/%d correct", correct, attempted))
	}
	return strings.Join(lines, "\n")
}
