package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List past chat sessions with turn and answer totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		summaries, err := s.EventRepo().SessionSummaries(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No sessions recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %6s  %8s  %8s  %8s\n", "Session", "Turns", "Answers", "Correct", "Accuracy")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, sum := range summaries {
			acc := "-"
			if sum.Answers > 0 {
				acc = fmt.Sprintf("%.0f%%", sum.Accuracy()*100)
			}
			fmt.Fprintf(out, "%-36s  %6d  %8d  %8d  %8s\n", sum.SessionID, sum.Turns, sum.Answers, sum.Correct, acc)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
