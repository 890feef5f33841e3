package intent

import (
	"log/slog"
	"slices"

	"github.com/abhisek/studybuddy/internal/curriculum"
)

// Confidence reported when no phrase decides the intent.
const (
	answerFallbackConfidence   = 0.7
	offTopicFallbackConfidence = 0.3
	topiclessExplainConfidence = 0.4
)

// Classifier is a phrase-pattern matcher over tokenized utterances.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	phrases map[Intent][][]string
	order   []Intent
}

// NewClassifier builds a classifier with the built-in phrase sets and the
// package Priority order.
func NewClassifier() *Classifier {
	return NewClassifierWithPhrases(defaultPhrases, Priority)
}

// NewClassifierWithPhrases builds a classifier from custom phrase sets.
// Intents missing from order are never matched.
func NewClassifierWithPhrases(phrases map[Intent][]string, order []Intent) *Classifier {
	c := &Classifier{
		phrases: make(map[Intent][][]string, len(phrases)),
		order:   slices.Clone(order),
	}
	for in, list := range phrases {
		for _, p := range list {
			if toks := curriculum.Tokens(p); len(toks) > 0 {
				c.phrases[in] = append(c.phrases[in], toks)
			}
		}
	}
	return c
}

// Classify maps an utterance to an intent. quizPending selects the fallback
// when no phrase matches: Answer while a question is open, OffTopic otherwise.
func (c *Classifier) Classify(text string, quizPending bool) Result {
	topic, hasTopic := curriculum.ExtractTopic(text)
	res := Result{Topic: topic, HasTopic: hasTopic}

	tokens := curriculum.Tokens(text)

	best := Intent("")
	bestScore := 0.0
	if len(tokens) > 0 {
		for _, in := range c.order {
			span := longestMatch(tokens, c.phrases[in])
			if span == 0 {
				continue
			}
			score := float64(span) / float64(len(tokens))
			// Strictly greater: on ties the earlier intent in order keeps the slot.
			if score > bestScore {
				best, bestScore = in, score
			}
		}
	}

	switch {
	case best == "":
		res.Intent, res.Confidence = OffTopic, offTopicFallbackConfidence
		if quizPending {
			res.Intent, res.Confidence = Answer, answerFallbackConfidence
		}
	case best == Explain && !hasTopic:
		res.Intent, res.Confidence = OffTopic, topiclessExplainConfidence
	default:
		res.Intent = best
		res.Confidence = confidence(bestScore)
	}

	slog.Debug("classified utterance",
		"intent", res.Intent, "confidence", res.Confidence, "topic", res.Topic)
	return res
}

func confidence(score float64) float64 {
	return min(0.5+score, 1.0)
}

// longestMatch returns the token length of the longest phrase that occurs
// contiguously in tokens, or 0 if none does.
func longestMatch(tokens []string, phrases [][]string) int {
	best := 0
	for _, p := range phrases {
		if len(p) <= best || len(p) > len(tokens) {
			continue
		}
		if containsRun(tokens, p) {
			best = len(p)
		}
	}
	return best
}

func containsRun(tokens, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}
