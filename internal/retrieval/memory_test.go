package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/questionbank"
)

func defaultMemory(t *testing.T) *Memory {
	t.Helper()
	bank, err := questionbank.Default()
	require.NoError(t, err)
	corpus, err := LoadCorpus(CorpusOptions{Bank: bank})
	require.NoError(t, err)
	return NewMemory(corpus)
}

func TestLoadCorpus_Defaults(t *testing.T) {
	m := defaultMemory(t)
	assert.Equal(t, 15, m.Len(TutorialChunks))
	assert.Equal(t, 10, m.Len(Exercises))
	assert.Equal(t, 30, m.Len(QuizQuestions))
}

func TestMemoryQuery_FilteredByTopic(t *testing.T) {
	m := defaultMemory(t)

	res, err := m.Query(context.Background(), "Explain how for loops work", TutorialChunks, 3,
		&Filter{Topic: curriculum.TopicControlStructures})
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, "tut-cs-2", res[0].Metadata["id"])
	for i, r := range res {
		assert.Equal(t, "control_structures", r.Metadata["topic"])
		if i > 0 {
			assert.LessOrEqual(t, res[i-1].Distance, r.Distance)
		}
		assert.GreaterOrEqual(t, r.Distance, 0.0)
		assert.LessOrEqual(t, r.Distance, 1.0)
	}
}

func TestMemoryQuery_RanksExactTermFirst(t *testing.T) {
	m := defaultMemory(t)

	res, err := m.Query(context.Background(), "append", TutorialChunks, 2, nil)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "tut-ls-2", res[0].Metadata["id"])
	assert.Zero(t, res[0].Distance)
}

func TestMemoryQuery_EmptyCollection(t *testing.T) {
	m := NewMemory(Corpus{})
	res, err := m.Query(context.Background(), "lists", Exercises, 2, nil)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NotNil(t, res)
}

func TestMemoryQuery_UnknownCollection(t *testing.T) {
	m := NewMemory(Corpus{})
	_, err := m.Query(context.Background(), "lists", Collection("notes"), 2, nil)
	assert.True(t, errors.Is(err, ErrUnknownCollection))
}

func TestMemoryQuery_UnknownFilterTopic(t *testing.T) {
	m := defaultMemory(t)
	_, err := m.Query(context.Background(), "lists", TutorialChunks, 2, &Filter{Topic: "recursion"})
	assert.Error(t, err)
}

func TestTermScore_FuzzyCredit(t *testing.T) {
	assert.Equal(t, 1.0, termScore([]string{"loop"}, []string{"loop"}))
	assert.InDelta(t, 1.0/3.0, termScore([]string{"loop"}, []string{"loops"}), 1e-9)
	assert.Zero(t, termScore([]string{"dict"}, []string{"list", "tuple"}))
	assert.Zero(t, termScore([]string{"if"}, []string{"elif"}), "short terms need an exact word")
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("exercises")
	require.NoError(t, err)
	assert.Equal(t, Exercises, c)

	_, err = ParseCollection("notes")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestParseDocuments_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing id":    `[{"topic":"lists","title":"t","content":"c"}]`,
		"duplicate id":  `[{"id":"a","topic":"lists","content":"c"},{"id":"a","topic":"lists","content":"d"}]`,
		"unknown topic": `[{"id":"a","topic":"recursion","content":"c"}]`,
		"empty content": `[{"id":"a","topic":"lists","content":""}]`,
		"unknown field": `[{"id":"a","topic":"lists","content":"c","tags":[]}]`,
		"not an array":  `{"id":"a"}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocuments([]byte(data))
			assert.Error(t, err)
		})
	}
}

type fakeRetriever struct {
	calls   []*Filter
	failErr error
}

func (f *fakeRetriever) Query(_ context.Context, _ string, _ Collection, _ int, flt *Filter) ([]Result, error) {
	f.calls = append(f.calls, flt)
	if flt != nil && f.failErr != nil {
		return nil, f.failErr
	}
	return []Result{{Content: "unfiltered"}}, nil
}

func TestWithFilterFallback(t *testing.T) {
	inner := &fakeRetriever{failErr: errors.New("filter not supported")}
	r := WithFilterFallback(inner)

	res, err := r.Query(context.Background(), "q", TutorialChunks, 2, &Filter{Topic: curriculum.TopicLists})
	require.NoError(t, err)
	assert.Equal(t, []string{"unfiltered"}, Contents(res))
	require.Len(t, inner.calls, 2)
	assert.NotNil(t, inner.calls[0])
	assert.Nil(t, inner.calls[1])
}

func TestWithFilterFallback_NoRetryForUnknownCollection(t *testing.T) {
	inner := &fakeRetriever{failErr: ErrUnknownCollection}
	r := WithFilterFallback(inner)

	_, err := r.Query(context.Background(), "q", "notes", 2, &Filter{Topic: curriculum.TopicLists})
	assert.ErrorIs(t, err, ErrUnknownCollection)
	assert.Len(t, inner.calls, 1)
}
