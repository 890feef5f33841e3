// Package intent maps learner utterances to conversational intents.
package intent

import "github.com/abhisek/studybuddy/internal/curriculum"

// Intent is the conversational purpose of an utterance.
type Intent string

const (
	Quiz     Intent = "quiz"
	Hint     Intent = "hint"
	Explain  Intent = "explain"
	Answer   Intent = "answer"
	Progress Intent = "progress"
	Greeting Intent = "greeting"
	Farewell Intent = "farewell"
	OffTopic Intent = "off_topic"
)

// Priority is the tie-break order used when two intents match with the same
// score: the earlier entry wins. Answer and OffTopic carry no trigger phrases
// and are only produced by the fallback rules.
var Priority = []Intent{
	Quiz,
	Hint,
	Explain,
	Progress,
	Greeting,
	Farewell,
	Answer,
	OffTopic,
}

// Result is the classification of one utterance.
type Result struct {
	Intent     Intent
	Confidence float64

	// Topic is the detected topic, or "" when none was found.
	Topic    curriculum.Topic
	HasTopic bool
}
