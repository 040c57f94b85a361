package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/game"
	"github.com/abhisek/geoquiz/internal/logging"
	"github.com/abhisek/geoquiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quizzes to a browser map renderer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		logger, err := logging.NewText(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}

		addr := cfg.ServeAddr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		origins, _ := cmd.Flags().GetStringSlice("origin")

		srv := server.New(server.Options{
			Quizzes:        st.QuizRepo(),
			Datasets:       st.DatasetRepo(),
			Events:         st.EventRepo(),
			Loader:         game.NewLoader(st.QuizRepo(), st.DatasetRepo(), cfg.Language(), nil),
			Logger:         logger,
			OriginPatterns: origins,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx, addr); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides serve_addr)")
	serveCmd.Flags().StringSlice("origin", nil, "Extra websocket origin patterns to accept")
}
