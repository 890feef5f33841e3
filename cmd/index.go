package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/retrieval"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the reference corpus into the Pinecone index",
	Long: `Creates the Pinecone index when missing and upserts the tutorial chunks,
exercises and quiz questions, one namespace per collection. Requires
STUDYBUDDY_PINECONE_API_KEY and an OpenAI key for embeddings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Retrieval.Backend = config.BackendPinecone
		if err := cfg.Validate(); err != nil {
			return err
		}

		bank, err := loadBank(cfg.QuestionsPath)
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}
		corpus, err := retrieval.LoadCorpus(retrieval.CorpusOptions{
			TutorialsPath: cfg.TutorialsPath,
			ExercisesPath: cfg.ExercisesPath,
			Bank:          bank,
		})
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}

		pc, err := retrieval.NewPinecone(cfg.Retrieval.Pinecone)
		if err != nil {
			return err
		}
		defer pc.Close()

		ctx := cmd.Context()
		dim, _ := cmd.Flags().GetInt32("dimension")
		if err := pc.EnsureIndex(ctx, dim); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range retrieval.AllCollections() {
			n, err := pc.Upsert(ctx, c, corpus[c])
			if err != nil {
				return fmt.Errorf("index %s: %w", c, err)
			}
			fmt.Fprintf(out, "%-16s  %4d documents\n", c, n)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().Int32("dimension", 1536, "Embedding dimension used when creating the index")
}
