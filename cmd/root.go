package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/arya/internal/config"
	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "arya",
	Short: "AI interview practice in your terminal",
	Long: "Arya runs a timed, three-round technical interview on any topic, " +
		"scores your answers with a language model and lets you discuss the results.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ARYA_DB env var)")
	pf.String("log-file", "", "Write diagnostic logs as JSON lines to this file")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")

	f := rootCmd.Flags()
	f.IntP("questions", "n", interview.DefaultQuestionsPerLevel,
		fmt.Sprintf("Questions per level (%d-%d)", interview.MinQuestionsPerLevel, interview.MaxQuestionsPerLevel))
	f.String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter, or mock for an offline demo")
	f.String("model", "", "Model ID for the selected provider")

	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves flags, ARYA_* env and the config file for cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the database selected by --db, ARYA_DB or the default
// XDG path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
