package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/store"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage GeoJSON datasets",
}

var datasetImportCmd = &cobra.Command{
	Use:   "import <file.geojson>",
	Short: "Import a GeoJSON FeatureCollection as a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read dataset: %w", err)
		}
		fc, err := geo.ParseFeatureCollection(raw)
		if err != nil {
			return err
		}

		idKey, _ := cmd.Flags().GetString("id-key")
		labelKey, _ := cmd.Flags().GetString("label-key")
		keys := geo.PropertyKeys(fc)
		for _, k := range []string{idKey, labelKey} {
			if k == "" {
				return fmt.Errorf("--id-key and --label-key are required; available keys: %s", strings.Join(keys, ", "))
			}
			if !slices.Contains(keys, k) {
				return fmt.Errorf("%w: unknown property %q; available keys: %s",
					store.ErrInvalidDataset, k, strings.Join(keys, ", "))
			}
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		folderID, _ := cmd.Flags().GetString("folder")

		ds := &geo.Dataset{
			Name:     name,
			FolderID: folderID,
			GeoJSON:  fc,
			IDKey:    idKey,
			LabelKey: labelKey,
		}
		if flagsPath, _ := cmd.Flags().GetString("flags"); flagsPath != "" {
			if ds.Flags, err = readStringMap(flagsPath); err != nil {
				return fmt.Errorf("read flags: %w", err)
			}
		}

		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DatasetRepo().Save(cmd.Context(), ds); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}

		regions := geo.ExtractRegions(ds, cfg.Language())
		fmt.Fprintf(cmd.OutOrStdout(), "Imported dataset %s (%s): %d regions\n", ds.ID, ds.Name, len(regions))
		if skipped := len(fc.Features) - len(regions); skipped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d features skipped: missing %s or %s\n", skipped, idKey, labelKey)
		}
		return nil
	},
}

var datasetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		datasets, err := st.DatasetRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-30s  %7s  %s\n", "ID", "Name", "Regions", "Updated")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, ds := range datasets {
			fmt.Fprintf(out, "%-36s  %-30s  %7d  %s\n",
				ds.ID, truncate(ds.Name, 30), len(geo.ExtractRegions(ds, cfg.Language())), formatMillis(ds.UpdatedAt))
		}
		fmt.Fprintf(out, "\n%d datasets\n", len(datasets))
		return nil
	},
}

var datasetShowCmd = &cobra.Command{
	Use:   "show <dataset-id>",
	Short: "Show a dataset and its regions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, err := st.DatasetRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", ds.ID)
		fmt.Fprintf(out, "Name:      %s\n", ds.Name)
		fmt.Fprintf(out, "ID key:    %s\n", ds.IDKey)
		fmt.Fprintf(out, "Label key: %s\n", ds.LabelKey)
		fmt.Fprintf(out, "Features:  %d\n", len(ds.GeoJSON.Features))
		fmt.Fprintf(out, "Flags:     %d\n\n", len(ds.Flags))

		for _, r := range geo.ExtractRegions(ds, cfg.Language()) {
			flag := ""
			if r.HasFlag {
				flag = "  [flag]"
			}
			fmt.Fprintf(out, "  %-12s  %s%s\n", r.ID, r.Label, flag)
		}
		return nil
	},
}

var datasetKeysCmd = &cobra.Command{
	Use:   "keys <file.geojson>",
	Short: "List the feature property keys of a GeoJSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read dataset: %w", err)
		}
		fc, err := geo.ParseFeatureCollection(raw)
		if err != nil {
			return err
		}
		for _, k := range geo.PropertyKeys(fc) {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

var datasetDeleteCmd = &cobra.Command{
	Use:   "delete <dataset-id>",
	Short: "Delete a dataset and every quiz built on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DatasetRepo().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete dataset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted dataset %s\n", args[0])
		return nil
	},
}

func init() {
	datasetImportCmd.Flags().String("name", "", "Dataset name (defaults to the file name)")
	datasetImportCmd.Flags().String("id-key", "", "Feature property holding the region ID")
	datasetImportCmd.Flags().String("label-key", "", "Feature property holding the region label")
	datasetImportCmd.Flags().String("flags", "", "JSON file mapping region ID to flag image URL")
	datasetImportCmd.Flags().String("folder", "", "Folder ID")

	datasetCmd.AddCommand(datasetImportCmd)
	datasetCmd.AddCommand(datasetListCmd)
	datasetCmd.AddCommand(datasetShowCmd)
	datasetCmd.AddCommand(datasetKeysCmd)
	datasetCmd.AddCommand(datasetDeleteCmd)
}

// readStringMap reads a JSON object of string values.
func readStringMap(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
