package retrieval

import (
	"context"
	"fmt"
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/abhisek/studybuddy/internal/curriculum"
)

// stopWords are dropped from queries before matching.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "of": true,
	"to": true, "in": true, "on": true, "how": true, "what": true, "do": true,
	"does": true, "me": true, "i": true, "it": true, "and": true, "or": true,
	"explain": true, "about": true, "work": true, "works": true, "tell": true,
}

// topicBoost is added to the score of documents on the query's topic.
const topicBoost = 0.5

// Memory is an in-process Retriever over a fixed corpus. Documents are
// scored by fuzzy term overlap with the query. It is read-only after
// construction and safe for concurrent use.
type Memory struct {
	docs map[Collection][]indexedDoc
}

type indexedDoc struct {
	Document
	words []string
}

// NewMemory indexes the corpus.
func NewMemory(corpus Corpus) *Memory {
	m := &Memory{docs: make(map[Collection][]indexedDoc, len(corpus))}
	for c, docs := range corpus {
		m.docs[c] = lo.Map(docs, func(d Document, _ int) indexedDoc {
			return indexedDoc{
				Document: d,
				words:    lo.Uniq(curriculum.Tokens(d.Title + " " + d.Content)),
			}
		})
	}
	return m
}

// Len returns the number of documents in a collection.
func (m *Memory) Len(c Collection) int {
	return len(m.docs[c])
}

func (m *Memory) Query(_ context.Context, text string, c Collection, k int, f *Filter) ([]Result, error) {
	if !slices.Contains(AllCollections(), c) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	if f != nil && f.Topic != "" && !f.Topic.Valid() {
		return nil, fmt.Errorf("filter: unknown topic %q", f.Topic)
	}
	if k <= 0 {
		return nil, nil
	}

	docs := m.docs[c]
	if f != nil && f.Topic != "" {
		docs = lo.Filter(docs, func(d indexedDoc, _ int) bool { return d.Topic == f.Topic })
	}
	if len(docs) == 0 {
		return []Result{}, nil
	}

	terms := queryTerms(text)
	queryTopic, hasTopic := curriculum.ExtractTopic(text)

	results := make([]Result, len(docs))
	for i, d := range docs {
		score := termScore(terms, d.words)
		if hasTopic && d.Topic == queryTopic {
			score += topicBoost
		}
		norm := score / (float64(len(terms)) + topicBoost)
		results[i] = Result{
			Content:  d.Content,
			Metadata: d.Metadata(),
			Distance: 1 - min(norm, 1),
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func queryTerms(text string) []string {
	return lo.Uniq(lo.Filter(curriculum.Tokens(text), func(t string, _ int) bool {
		return !stopWords[t]
	}))
}

// termScore credits 1 for each term present as a word and a partial credit
// for terms that fuzzily match a word ("loop" in "loops").
func termScore(terms, words []string) float64 {
	score := 0.0
	for _, t := range terms {
		if slices.Contains(words, t) {
			score++
			continue
		}
		if len(t) < 3 {
			continue
		}
		ranks := fuzzy.RankFindFold(t, words)
		if len(ranks) == 0 {
			continue
		}
		best := slices.MinFunc(ranks, func(a, b fuzzy.Rank) int { return a.Distance - b.Distance })
		score += 1 / float64(2+best.Distance)
	}
	return score
}
