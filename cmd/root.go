package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "geoquiz",
	Short: "Geography quiz in the terminal",
	Long:  "GeoQuiz turns GeoJSON datasets into map-click and multiple-choice quizzes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GEOQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(migrateLegacyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
