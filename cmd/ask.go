package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [utterance...]",
	Short: "Chat in line mode",
	Long: `Chat without the TUI. With arguments, sends them as a single utterance
and prints the reply. Without arguments, reads one utterance per line from
stdin until EOF.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d, err := buildDeps(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		quiet, _ := cmd.Flags().GetBool("quiet")
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			fmt.Fprintln(out, d.session.Respond(cmd.Context(), strings.Join(args, " ")))
			return nil
		}

		if !quiet {
			fmt.Fprintln(out, d.session.Greeting()[0].Content)
			fmt.Fprintln(out)
		}
		return askLoop(cmd, cmd.InOrStdin(), out, d, quiet)
	},
}

func askLoop(cmd *cobra.Command, in io.Reader, out io.Writer, d *deps, quiet bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if !quiet {
			fmt.Fprint(out, ">>> ")
		}
		if !scanner.Scan() {
			break
		}
		reply := d.session.Respond(cmd.Context(), scanner.Text())
		if reply == "" {
			continue
		}
		fmt.Fprintln(out, reply)
		fmt.Fprintln(out)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func init() {
	askCmd.Flags().BoolP("quiet", "q", false, "Suppress the greeting and prompt")
}
