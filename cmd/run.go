package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/arya/internal/app"
	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/llm"
	"github.com/abhisek/arya/internal/logging"
	"github.com/abhisek/arya/internal/oracle"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/store"
)

// runApp opens the store, builds the oracle and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	log.WithFields(logrus.Fields{
		"config_file": cfg.File,
		"config":      cfg.Describe(),
	}).Info("starting")

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	ctx := logging.NewContext(cmd.Context(), log)

	provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY (or another provider key) and try again.")
		return err
	}

	client := oracle.New(provider, oracle.DefaultConfig(), log)
	ctl := interview.NewController(client,
		interview.WithEventRepo(eventRepo),
		interview.WithLogger(log),
	)

	return app.Run(app.Options{
		Session:           screen.Session{Controller: ctl, Logger: log},
		QuestionsPerLevel: cfg.QuestionsPerLevel,
	})
}
