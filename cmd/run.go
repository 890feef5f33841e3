package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/app"
)

// runApp builds the session and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := buildDeps(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Session:     d.session,
		TurnTimeout: cfg.LLM.Timeout * 2,
		SkipSplash:  skip,
	})
}

func init() {
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
}
