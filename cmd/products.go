package cmd

import (
	"github.com/spf13/cobra"

	"github.com/swilhoit/sunbeam/internal/filter"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"list"},
	Short:   "List catalog products matching the filter flags",
	Example: `  sunbeam products --category sofas --sort price-low
  sunbeam products --room Bedroom --height 24-36 --json
  sunbeam products --style "Mid Century" --min-price 200 --max-price 900 -n 20`,
	RunE: runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	registerProductFilterFlags(productsCmd.Flags())
}

func runProducts(cmd *cobra.Command, _ []string) error {
	cat, err := loadSettingsAndCatalog(true)
	if err != nil {
		return err
	}

	all := cat.All()
	spec, err := buildFilterSpec(cmd, all)
	if err != nil {
		return err
	}

	products := filter.Apply(all, spec)
	if len(products) == 0 {
		return notFoundError(
			"no products match your filters",
			"Relax filters like --category/--room/--style/--max-price.",
			"sunbeam facets   # shows the values present in the catalog",
		)
	}
	return printProducts(cmd, products, cat.Len())
}
