package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/store"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Organize quizzes and datasets into folders",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindName, _ := cmd.Flags().GetString("kind")
		kind, err := store.ParseFolderKind(kindName)
		if err != nil {
			return err
		}
		parentID, _ := cmd.Flags().GetString("parent")

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		f := &store.Folder{Name: args[0], Kind: kind, ParentID: parentID}
		if err := st.FolderRepo().Save(cmd.Context(), f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s folder %s (%s)\n", f.Kind, f.ID, f.Name)
		return nil
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind store.FolderKind
		if kindName, _ := cmd.Flags().GetString("kind"); kindName != "" {
			k, err := store.ParseFolderKind(kindName)
			if err != nil {
				return err
			}
			kind = k
		}

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		folders, err := st.FolderRepo().List(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("list folders: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-7s  %-30s  %s\n", "ID", "Kind", "Name", "Parent")
		fmt.Fprintln(out, strings.Repeat("─", 115))
		for _, f := range folders {
			parent := f.ParentID
			if parent == "" {
				parent = "-"
			}
			fmt.Fprintf(out, "%-36s  %-7s  %-30s  %s\n", f.ID, f.Kind, truncate(f.Name, 30), parent)
		}
		fmt.Fprintf(out, "\n%d folders\n", len(folders))
		return nil
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder, moving its contents to the parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.FolderRepo().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s\n", args[0])
		return nil
	},
}

func init() {
	folderCreateCmd.Flags().String("kind", string(store.FolderKindQuiz), "Folder kind (quiz or dataset)")
	folderCreateCmd.Flags().String("parent", "", "Parent folder ID")
	folderListCmd.Flags().String("kind", "", "Only folders of this kind")

	folderCmd.AddCommand(folderCreateCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderDeleteCmd)
}
