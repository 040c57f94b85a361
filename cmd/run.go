package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/app"
	"github.com/abhisek/geoquiz/internal/logging"
)

// runApp opens the store, builds dependencies, and launches the TUI.
// A non-empty quizID opens that quiz directly.
func runApp(cmd *cobra.Command, quizID string) error {
	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if quizID != "" {
		if _, err := st.QuizRepo().Get(cmd.Context(), quizID); err != nil {
			return fmt.Errorf("load quiz: %w", err)
		}
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	logger.Info("starting", "db", cfg.DBPath, "locale", cfg.Locale, "quiz", quizID)

	return app.Run(app.Options{
		Store:         st,
		Logger:        logger,
		Locale:        cfg.Language(),
		InitialQuizID: quizID,
	})
}
