package retrieval

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/questionbank"
)

//go:embed data/tutorial_chunks.json
var defaultTutorials []byte

//go:embed data/exercises.json
var defaultExercises []byte

// Document is one piece of reference text.
type Document struct {
	ID      string           `json:"id"`
	Topic   curriculum.Topic `json:"topic"`
	Title   string           `json:"title"`
	Content string           `json:"content"`
}

// Metadata returns the attributes stored alongside the document.
func (d Document) Metadata() map[string]any {
	return map[string]any{
		"id":    d.ID,
		"topic": string(d.Topic),
		"title": d.Title,
	}
}

// Corpus maps each collection to its documents.
type Corpus map[Collection][]Document

// ParseDocuments decodes a JSON array of documents and checks that every
// document has an ID, content and a known topic.
func ParseDocuments(data []byte) ([]Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var docs []Document
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		switch {
		case d.ID == "":
			return nil, fmt.Errorf("document %d: missing id", i)
		case seen[d.ID]:
			return nil, fmt.Errorf("document %q: duplicate id", d.ID)
		case !d.Topic.Valid():
			return nil, fmt.Errorf("document %q: unknown topic %q", d.ID, d.Topic)
		case d.Content == "":
			return nil, fmt.Errorf("document %q: empty content", d.ID)
		}
		seen[d.ID] = true
	}
	return docs, nil
}

// LoadDocuments reads documents from a JSON file.
func LoadDocuments(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	docs, err := ParseDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// QuestionDocuments turns bank questions into searchable documents.
func QuestionDocuments(bank *questionbank.Bank) []Document {
	return lo.Map(bank.All(), func(q *questionbank.Question, _ int) Document {
		return Document{
			ID:      q.ID,
			Topic:   q.Topic,
			Title:   q.Topic.Label() + " - " + q.Difficulty.Label(),
			Content: q.Text,
		}
	})
}

// CorpusOptions selects the sources for LoadCorpus. Empty paths use the
// built-in documents; a nil Bank leaves the quiz_questions collection empty.
type CorpusOptions struct {
	TutorialsPath string
	ExercisesPath string
	Bank          *questionbank.Bank
}

// LoadCorpus assembles all three collections.
func LoadCorpus(opts CorpusOptions) (Corpus, error) {
	tutorials, err := loadOrDefault(opts.TutorialsPath, defaultTutorials)
	if err != nil {
		return nil, fmt.Errorf("tutorial chunks: %w", err)
	}
	exercises, err := loadOrDefault(opts.ExercisesPath, defaultExercises)
	if err != nil {
		return nil, fmt.Errorf("exercises: %w", err)
	}

	corpus := Corpus{
		TutorialChunks: tutorials,
		Exercises:      exercises,
	}
	if opts.Bank != nil {
		corpus[QuizQuestions] = QuestionDocuments(opts.Bank)
	}
	return corpus, nil
}

func loadOrDefault(path string, embedded []byte) ([]Document, error) {
	if path != "" {
		return LoadDocuments(path)
	}
	return ParseDocuments(embedded)
}
