package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent play sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		summaries, err := st.EventRepo().QueryPlaySummaries(ctx, limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		quizzes, err := st.QuizRepo().List(ctx)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		names := make(map[string]string, len(quizzes))
		for _, q := range quizzes {
			names[q.ID] = q.Name
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s  %-30s  %7s  %s\n", "Started", "Quiz", "Score", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for _, s := range summaries {
			name, ok := names[s.QuizID]
			if !ok {
				name = s.QuizID + " (deleted)"
			}
			status := "finished"
			if !s.Finished() {
				status = fmt.Sprintf("stopped after %d", s.Answered)
			}
			fmt.Fprintf(out, "%-16s  %-30s  %7s  %s\n",
				s.StartedAt.Format("2006-01-02 15:04"), truncate(name, 30),
				fmt.Sprintf("%d/%d", s.Score, s.Total), status)
		}
		fmt.Fprintf(out, "\n%d sessions\n", len(summaries))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum sessions to show (0 = all)")
}
