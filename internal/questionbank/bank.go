package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/samber/lo"

	"github.com/abhisek/studybuddy/internal/curriculum"
)

//go:embed data/quiz_questions.json
var defaultBankJSON []byte

// ErrNoQuestions is returned when a bank would be empty.
var ErrNoQuestions = errors.New("question bank is empty")

// Bank is an immutable, validated set of questions. It is safe for
// concurrent reads.
type Bank struct {
	questions []*Question
	byID      map[string]*Question
}

// New validates questions and builds a bank. It fails on any integrity
// problem so a session never starts against a topic outside the fixed set.
func New(questions []Question) (*Bank, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	b := &Bank{
		questions: make([]*Question, len(questions)),
		byID:      make(map[string]*Question, len(questions)),
	}
	for i := range questions {
		q := questions[i]
		b.questions[i] = &q
		b.byID[q.ID] = &q
	}
	return b, nil
}

// Parse decodes and validates a JSON question bank.
func Parse(data []byte) (*Bank, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var questions []Question
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return New(questions)
}

// Load reads and validates a question bank file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("loaded question bank", "path", path, "questions", b.Len())
	return b, nil
}

// Default returns the bank bundled with the binary.
func Default() (*Bank, error) {
	return Parse(defaultBankJSON)
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// All returns every question in load order.
func (b *Bank) All() []*Question {
	return append([]*Question(nil), b.questions...)
}

// Get returns the question with the given id.
func (b *Bank) Get(id string) (*Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Count returns how many questions match a topic and difficulty.
func (b *Bank) Count(topic curriculum.Topic, difficulty curriculum.Difficulty) int {
	return lo.CountBy(b.questions, func(q *Question) bool {
		return q.Topic == topic && q.Difficulty == difficulty
	})
}

// Pick chooses a question the learner has not seen yet. It prefers the
// requested topic and difficulty, then any difficulty of the topic, then
// any unseen question at all. Among the candidates of the first non-empty
// tier the choice is uniform using rng. It returns nil when every
// question has been asked.
func (b *Bank) Pick(rng *rand.Rand, topic curriculum.Topic, difficulty curriculum.Difficulty, exclude []string) *Question {
	asked := lo.SliceToMap(exclude, func(id string) (string, struct{}) {
		return id, struct{}{}
	})
	unseen := func(q *Question) bool {
		_, done := asked[q.ID]
		return !done
	}

	tiers := []func(q *Question) bool{
		func(q *Question) bool { return q.Topic == topic && q.Difficulty == difficulty },
		func(q *Question) bool { return q.Topic == topic },
		func(q *Question) bool { return true },
	}

	for i, match := range tiers {
		candidates := lo.Filter(b.questions, func(q *Question, _ int) bool {
			return unseen(q) && match(q)
		})
		if len(candidates) == 0 {
			continue
		}
		if i > 0 {
			slog.Debug("question pool widened",
				"topic", topic, "difficulty", difficulty, "tier", i, "candidates", len(candidates))
		}
		return candidates[intN(rng, len(candidates))]
	}
	return nil
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
