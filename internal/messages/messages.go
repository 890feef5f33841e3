// Package messages holds the tutor's canned responses, loaded from embedded
// locale files through go-i18n.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message IDs.
const (
	Welcome            = "Welcome"
	OffTopic           = "OffTopic"
	Farewell           = "Farewell"
	NoPendingQuestion  = "NoPendingQuestion"
	NoActiveQuestion   = "NoActiveQuestion"
	QuestionsExhausted = "QuestionsExhausted"
	NoReference        = "NoReference"
	QuestionHeader     = "QuestionHeader"
	AnswerCorrect      = "AnswerCorrect"
	AnswerIncorrect    = "AnswerIncorrect"
	DifficultyAdjusted = "DifficultyAdjusted"
	OfferHint          = "OfferHint"
	NextStep           = "NextStep"
	ProgressHeader     = "ProgressHeader"
	Hint               = "Hint"
	TopicHeader        = "TopicHeader"
	InShort            = "InShort"
)

// DefaultLanguage is used when no language is configured and as the
// fallback for missing translations.
const DefaultLanguage = "en"

// Catalog resolves message IDs for one language.
type Catalog struct {
	loc  *i18n.Localizer
	lang string
}

// New loads every embedded locale and returns a Catalog for lang, falling
// back to English for messages the language does not define.
func New(lang string) (*Catalog, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := path.Join("locales", e.Name())
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	return &Catalog{
		loc:  i18n.NewLocalizer(bundle, tag.String(), DefaultLanguage),
		lang: tag.String(),
	}, nil
}

// English returns the built-in English catalog. It panics if the embedded
// locale files are broken.
func English() *Catalog {
	c, err := New(DefaultLanguage)
	if err != nil {
		panic(err)
	}
	return c
}

// Language returns the catalog's language tag.
func (c *Catalog) Language() string {
	return c.lang
}

// T returns the message for id.
func (c *Catalog) T(id string) string {
	return c.Td(id, nil)
}

// Td returns the message for id rendered with data.
func (c *Catalog) Td(id string, data map[string]any) string {
	s, err := c.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing message", "id", id, "error", err)
		return id
	}
	return s
}
