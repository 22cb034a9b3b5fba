package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search titles, descriptions, categories, vendors, tags and materials",
	Example: `  sunbeam search teak
  sunbeam search "danish modern" --limit 5 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Limit number of results (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cat, err := loadSettingsAndCatalog(true)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return invalidArgsError("search query must not be blank", "sunbeam search walnut")
	}

	results := cat.Search(query)
	if len(results) == 0 {
		return notFoundError(
			fmt.Sprintf("no products match %q", query),
			"Try a shorter keyword or a material such as teak or brass.",
		)
	}
	if flagLimit > 0 && len(results) > flagLimit {
		results = results[:flagLimit]
	}
	return printProducts(cmd, results, cat.Len())
}
