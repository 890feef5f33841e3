package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/grading"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/messages"
	"github.com/abhisek/studybuddy/internal/questionbank"
	"github.com/abhisek/studybuddy/internal/retrieval"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/tutor"
)

// deps holds everything a tutoring session needs, plus the resources to
// release when it ends.
type deps struct {
	cfg     config.Config
	session *tutor.Session
	closers []func() error
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Warn("cleanup failed", "error", err)
		}
	}
}

// loadBank reads the question bank from path, or the built-in bank when
// path is empty.
func loadBank(path string) (*questionbank.Bank, error) {
	if path == "" {
		return questionbank.Default()
	}
	return questionbank.Load(path)
}

// buildRetriever wires the configured backend. The "none" backend returns
// a nil Retriever.
func buildRetriever(cfg config.Config, bank *questionbank.Bank) (retrieval.Retriever, func() error, error) {
	switch cfg.Retrieval.Backend {
	case config.BackendNone:
		return nil, nil, nil
	case config.BackendPinecone:
		pc, err := retrieval.NewPinecone(cfg.Retrieval.Pinecone)
		if err != nil {
			return nil, nil, err
		}
		return retrieval.WithFilterFallback(pc), pc.Close, nil
	default:
		corpus, err := retrieval.LoadCorpus(retrieval.CorpusOptions{
			TutorialsPath: cfg.TutorialsPath,
			ExercisesPath: cfg.ExercisesPath,
			Bank:          bank,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("load corpus: %w", err)
		}
		return retrieval.WithFilterFallback(retrieval.NewMemory(corpus)), nil, nil
	}
}

// providerNotice tells the user that semantic grading and summaries are
// off. err is nil when no provider was selected at all.
func providerNotice(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(w, "LLM provider not configured:", err)
	} else {
		fmt.Fprintln(w, "LLM provider not configured.")
	}
	fmt.Fprintln(w, "Answers will be graded by matching only.")
}

// buildDeps resolves configuration and assembles a tutor session. A missing
// or broken LLM provider only disables the features that need it.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	bank, err := loadBank(cfg.QuestionsPath)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	catalog, err := messages.New(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	retriever, closeRetriever, err := buildRetriever(cfg, bank)
	if err != nil {
		return nil, fmt.Errorf("init retrieval: %w", err)
	}
	if closeRetriever != nil {
		d.closers = append(d.closers, closeRetriever)
	}

	var eventRepo store.EventRepo
	var journal tutor.Journal
	if !cfg.NoJournal {
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.closers = append(d.closers, st.Close)
		eventRepo = st.EventRepo()
		journal = eventRepo
	}

	var gen grading.Generator
	provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo)
	switch {
	case err != nil, provider == nil:
		providerNotice(os.Stderr, err)
	default:
		gen = llm.NewCompleter(provider, cfg.LLM.Timeout)
		slog.Info("LLM provider ready", "provider", cfg.LLM.Provider, "model", provider.ModelID())
	}

	session, err := tutor.NewSession(tutor.Options{
		Bank:      bank,
		Retriever: retriever,
		Generator: gen,
		Rand:      cfg.Rand(),
		Catalog:   catalog,
		Adaptive:  cfg.Adaptive,
		Journal:   journal,
	})
	if err != nil {
		return nil, err
	}
	d.session = session

	ok = true
	return d, nil
}
