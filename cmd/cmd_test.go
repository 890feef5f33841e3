package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/adaptive"
	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/store"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Retrieval: config.RetrievalConfig{Backend: config.BackendMemory},
		Seed:      1,
		Adaptive:  adaptive.DefaultConfig(),
		LLM:       llm.DefaultConfig(),
		DBPath:    filepath.Join(t.TempDir(), "journal.db"),
		Language:  "en",
	}
}

func TestBuildDeps_JournalsTurns(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	d, err := buildDeps(ctx, cfg)
	require.NoError(t, err)

	reply := d.session.Respond(ctx, "quiz me on lists")
	assert.Contains(t, reply, "Lists")
	assert.Len(t, d.session.Asked(), 1)
	id := d.session.ID()
	d.Close()

	st, err := store.Open(cfg.DBPath)
	require.NoError(t, err)
	defer st.Close()

	turns, err := st.EventRepo().QueryTurns(ctx, store.QueryOpts{SessionID: id})
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "quiz", turns[0].Intent)
	assert.Equal(t, "lists", turns[0].Topic)
}

func TestBuildDeps_NoJournalNoRetrieval(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoJournal = true
	cfg.Retrieval.Backend = config.BackendNone

	d, err := buildDeps(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	reply := d.session.Respond(context.Background(), "explain for loops")
	assert.Contains(t, reply, "reference material")
	_, statErr := os.Stat(cfg.DBPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildDeps_BadBank(t *testing.T) {
	cfg := testConfig(t)
	cfg.QuestionsPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := buildDeps(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load question bank")
}

func TestProviderNotice(t *testing.T) {
	var buf bytes.Buffer
	providerNotice(&buf, nil)
	assert.Equal(t, "LLM provider not configured.\nAnswers will be graded by matching only.\n", buf.String())

	buf.Reset()
	providerNotice(&buf, errors.New("STUDYBUDDY_LLM_OPENAI_API_KEY is required for the openai provider"))
	assert.Equal(t, "LLM provider not configured: STUDYBUDDY_LLM_OPENAI_API_KEY is required for the openai provider\n"+
		"Answers will be graded by matching only.\n", buf.String())
}

func TestBuildDeps_NoProviderGradesByMatching(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoJournal = true
	cfg.LLM.Provider = "none"

	d, err := buildDeps(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	ctx := context.Background()
	d.session.Respond(ctx, "quiz me")
	require.True(t, d.session.Student().QuizPending())
	reply := d.session.Respond(ctx, "zzz qqq")
	assert.True(t, strings.HasPrefix(reply, "**Not quite.**"), reply)
}

func TestAskLoop(t *testing.T) {
	cfg := testConfig(t)
	cfg.NoJournal = true
	d, err := buildDeps(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	c := &cobra.Command{}
	c.SetContext(context.Background())

	in := strings.NewReader("hello\n\n   \nquiz me on functions\n")
	var out bytes.Buffer
	require.NoError(t, askLoop(c, in, &out, d, true))

	got := out.String()
	assert.Contains(t, got, "Study Buddy Bot")
	assert.Contains(t, got, "Functions")
	assert.Equal(t, 1, strings.Count(got, "Study Buddy Bot"))
	assert.Len(t, d.session.Asked(), 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "é", truncate("éé", 1))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
