package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Conversational Python tutor",
	Long:  "Study Buddy is a terminal tutor that quizzes you on Python, grades your answers and adapts the difficulty per topic.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return setupLogging(cmd)
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func viperForCmd(cmd *cobra.Command) *viper.Viper {
	return config.NewViper(cmd.Flags())
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(viperForCmd(cmd))
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the default slog logger. Logs go to stderr so they
// never interleave with command output.
func setupLogging(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %q", cfg.LogFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// resolveDBPath returns the journal path from --db / STUDYBUDDY_DB,
// falling back to the default XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
