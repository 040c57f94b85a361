package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Manage quizzes",
}

var quizCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a quiz over a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasetID, _ := cmd.Flags().GetString("dataset")
		if datasetID == "" {
			return fmt.Errorf("--dataset is required")
		}
		typeName, _ := cmd.Flags().GetString("type")
		qt, err := quiz.ParseType(typeName)
		if err != nil {
			return err
		}

		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, err := st.DatasetRepo().Get(cmd.Context(), datasetID)
		if err != nil {
			return err
		}

		settings := quiz.DefaultSettings()
		settings.OptionsCount = cfg.DefaultOptions
		if cmd.Flags().Changed("options") {
			settings.OptionsCount, _ = cmd.Flags().GetInt("options")
		}
		if settings.OptionsCount < 2 {
			return fmt.Errorf("--options must be at least 2, got %d", settings.OptionsCount)
		}
		settings.RevealAnswer, _ = cmd.Flags().GetBool("reveal")
		settings.EasyMode, _ = cmd.Flags().GetBool("easy")

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = ds.Name
		}
		folderID, _ := cmd.Flags().GetString("folder")
		pool, _ := cmd.Flags().GetStringSlice("pool")

		q := &quiz.Quiz{
			Name:      name,
			DatasetID: ds.ID,
			FolderID:  folderID,
			Type:      qt,
			Settings:  settings,
			Pool:      pool,
		}
		if imagesPath, _ := cmd.Flags().GetString("images"); imagesPath != "" {
			if q.ImageMap, err = readStringMap(imagesPath); err != nil {
				return fmt.Errorf("read images: %w", err)
			}
		}
		if qt.RequiresImages() && len(q.ImageMap) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s quiz has no images; it will not be playable\n", qt)
		}

		if err := st.QuizRepo().Save(cmd.Context(), q); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created quiz %s (%s, %s, %d regions)\n",
			q.ID, q.Name, q.Type, len(geo.ExtractRegions(ds, cfg.Language())))
		return nil
	},
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		quizzes, err := st.QuizRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-30s  %-15s  %s\n", "ID", "Name", "Type", "Dataset")
		fmt.Fprintln(out, strings.Repeat("─", 120))
		for _, q := range quizzes {
			fmt.Fprintf(out, "%-36s  %-30s  %-15s  %s\n", q.ID, truncate(q.Name, 30), q.Type, q.DatasetID)
		}
		fmt.Fprintf(out, "\n%d quizzes\n", len(quizzes))
		return nil
	},
}

var quizDeleteCmd = &cobra.Command{
	Use:   "delete <quiz-id>",
	Short: "Delete a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.QuizRepo().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete quiz: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted quiz %s\n", args[0])
		return nil
	},
}

func init() {
	types := make([]string, len(quiz.Types))
	for i, t := range quiz.Types {
		types[i] = string(t)
	}

	quizCreateCmd.Flags().String("dataset", "", "Dataset ID")
	quizCreateCmd.Flags().String("name", "", "Quiz name (defaults to the dataset name)")
	quizCreateCmd.Flags().String("type", string(quiz.TypeMapClick), "Quiz type ("+strings.Join(types, ", ")+")")
	quizCreateCmd.Flags().Int("options", 0, "Options per multiple-choice question (defaults to default_options)")
	quizCreateCmd.Flags().Bool("reveal", true, "Reveal the correct region after a wrong answer")
	quizCreateCmd.Flags().Bool("easy", false, "Keep answered regions highlighted")
	quizCreateCmd.Flags().String("images", "", "JSON file mapping region ID to image URL")
	quizCreateCmd.Flags().StringSlice("pool", nil, "Region IDs to keep in the quiz pool")
	quizCreateCmd.Flags().String("folder", "", "Folder ID")

	quizCmd.AddCommand(quizCreateCmd)
	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizDeleteCmd)
}
