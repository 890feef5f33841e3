// Package retrieval finds reference text for explanations and grading.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/studybuddy/internal/curriculum"
)

// Collection names a searchable set of documents.
type Collection string

const (
	TutorialChunks Collection = "tutorial_chunks"
	Exercises      Collection = "exercises"
	QuizQuestions  Collection = "quiz_questions"
)

// ErrUnknownCollection is returned for collections outside the fixed set.
var ErrUnknownCollection = errors.New("unknown collection")

// AllCollections returns every collection name.
func AllCollections() []Collection {
	return []Collection{TutorialChunks, Exercises, QuizQuestions}
}

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, error) {
	for _, c := range AllCollections() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
}

// Filter narrows a query to one topic.
type Filter struct {
	Topic curriculum.Topic
}

// Result is one retrieved document. Lower Distance means more relevant.
type Result struct {
	Content  string
	Metadata map[string]any
	Distance float64
}

// Retriever answers similarity queries over the reference collections.
// Results are ordered by ascending distance; an empty collection yields
// an empty slice.
type Retriever interface {
	Query(ctx context.Context, text string, c Collection, k int, f *Filter) ([]Result, error)
}

// filterFallback retries failed filtered queries without the filter.
type filterFallback struct {
	inner Retriever
}

// WithFilterFallback wraps r so that a filtered query that fails is retried
// once without its filter.
func WithFilterFallback(r Retriever) Retriever {
	return &filterFallback{inner: r}
}

func (f *filterFallback) Query(ctx context.Context, text string, c Collection, k int, flt *Filter) ([]Result, error) {
	res, err := f.inner.Query(ctx, text, c, k, flt)
	if err == nil || flt == nil || errors.Is(err, ErrUnknownCollection) {
		return res, err
	}
	slog.Warn("filtered query failed, retrying without filter",
		"collection", c, "topic", flt.Topic, "error", err)
	return f.inner.Query(ctx, text, c, k, nil)
}

// Contents returns the Content of each result.
func Contents(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Content
	}
	return out
}
