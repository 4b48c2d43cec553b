package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hungaromakker/battle-tok-sub003/engine/assetlib"
)

var libraryCmd = &cobra.Command{
	Use:   "library [category]",
	Short: "List the asset catalog",
	Long: `List catalogued assets, optionally limited to one category.

Examples:
  battletok library
  battletok library props --catalog ./assets.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibrary,
}

func init() {
	libraryCmd.Flags().StringVar(&flagCatalog, "catalog", defaultCatalog, "Asset catalog database")
}

func runLibrary(cmd *cobra.Command, args []string) error {
	category := ""
	if len(args) == 1 {
		category = args[0]
	}
	cat, err := assetlib.Open(flagCatalog)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(category)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No assets catalogued yet.")
		fmt.Fprintln(w, "Run 'battletok bake <recipe.json>' to add one.")
		return nil
	}

	fmt.Fprintf(w, "  %-20s  %-10s  %-7s  %8s  %-16s  %s\n", "Name", "Category", "Method", "Tris", "Updated", "Path")
	fmt.Fprintf(w, "  %-20s  %-10s  %-7s  %8s  %-16s  %s\n", "----", "--------", "------", "----", "-------", "----")
	for _, e := range entries {
		fmt.Fprintf(w, "  %-20s  %-10s  %-7s  %8d  %-16s  %s\n",
			e.Name, e.Category, e.Method, e.IndexCount/3, e.UpdatedAt.Format("2006-01-02 15:04"), e.Path)
	}
	return nil
}
