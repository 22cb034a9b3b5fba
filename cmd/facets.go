package cmd

import (
	"github.com/spf13/cobra"

	"github.com/swilhoit/sunbeam/internal/display"
	"github.com/swilhoit/sunbeam/internal/filter"
)

var facetsCmd = &cobra.Command{
	Use:     "facets",
	Aliases: []string{"filters"},
	Short:   "List the categories, rooms, styles, size ranges and prices in the catalog",
	Example: `  sunbeam facets
  sunbeam facets --json`,
	RunE: runFacets,
}

func init() {
	rootCmd.AddCommand(facetsCmd)
}

func runFacets(cmd *cobra.Command, _ []string) error {
	cat, err := loadSettingsAndCatalog(false)
	if err != nil {
		return err
	}

	facets := filter.Derive(cat.All())
	if flagJSON {
		return display.PrintFacetsJSON(cmd.OutOrStdout(), facets)
	}
	display.PrintFacets(cmd.OutOrStdout(), facets)
	return nil
}
