package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/curriculum"
	"github.com/abhisek/studybuddy/internal/questionbank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and validate question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a question bank file (default: built-in bank)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		bank, err := loadBank(path)
		if err != nil {
			var verr *questionbank.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d problem(s) found:\n", len(verr.Problems))
				for _, p := range verr.Problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
			}
			return fmt.Errorf("invalid question bank: %w", err)
		}
		name := path
		if name == "" {
			name = "built-in bank"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions OK\n", name, bank.Len())
		return nil
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show question counts per topic and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg.QuestionsPath)
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		out := cmd.OutOrStdout()
		if verbose {
			for _, q := range bank.All() {
				fmt.Fprintf(out, "%-12s  %-18s  %-12s  %-15s  %s\n",
					truncate(q.ID, 12), q.Topic, q.Difficulty, q.Type, truncate(q.Text, 60))
			}
			return nil
		}

		fmt.Fprintf(out, "%-18s  %8s  %12s  %8s  %6s\n", "Topic", "Beginner", "Intermediate", "Advanced", "Total")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, t := range curriculum.AllTopics() {
			counts := make([]int, 0, 3)
			total := 0
			for _, d := range curriculum.AllDifficulties() {
				n := bank.Count(t, d)
				counts = append(counts, n)
				total += n
			}
			fmt.Fprintf(out, "%-18s  %8d  %12d  %8d  %6d\n", t.Label(), counts[0], counts[1], counts[2], total)
		}
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "%-18s  %8s  %12s  %8s  %6d\n", "TOTAL", "", "", "", bank.Len())
		return nil
	},
}

func init() {
	bankListCmd.Flags().BoolP("verbose", "v", false, "List every question")

	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankListCmd)
}
