package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every dataset, quiz and folder as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		data, err := st.ExportAll(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, data)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Replace all records with an export document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read export: %w", err)
		}

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ImportAll(cmd.Context(), data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
		return nil
	},
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Share a single quiz together with its dataset",
}

var bundleExportCmd = &cobra.Command{
	Use:   "export <quiz-id>",
	Short: "Export a quiz bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		data, err := st.ExportQuizBundle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, data)
	},
}

var bundleImportCmd = &cobra.Command{
	Use:   "import <bundle.json>",
	Short: "Import a quiz bundle under fresh IDs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bundle: %w", err)
		}

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		b, err := st.ImportQuizBundle(cmd.Context(), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported quiz %s (%s) with dataset %s\n", b.Quiz.ID, b.Quiz.Name, b.Dataset.ID)
		return nil
	},
}

var migrateLegacyCmd = &cobra.Command{
	Use:   "migrate-legacy <file.json>",
	Short: "Import data saved by an older version, once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read legacy data: %w", err)
		}

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		migrated, err := st.MigrateLegacy(cmd.Context(), data)
		if err != nil {
			return err
		}
		if !migrated {
			fmt.Fprintln(cmd.OutOrStdout(), "Legacy data already migrated; nothing to do")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (defaults to stdout)")
	bundleExportCmd.Flags().StringP("out", "o", "", "Output file (defaults to stdout)")

	bundleCmd.AddCommand(bundleExportCmd)
	bundleCmd.AddCommand(bundleImportCmd)
}

// writeOutput writes data to the --out file, or to stdout when unset.
func writeOutput(cmd *cobra.Command, data []byte) error {
	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		if err == nil {
			_, err = io.WriteString(cmd.OutOrStdout(), "\n")
		}
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
