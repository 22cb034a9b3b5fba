package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swilhoit/sunbeam/internal/display"
	"github.com/swilhoit/sunbeam/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show HANDLE",
	Short: "Show one product and related pieces",
	Example: `  sunbeam show walnut-credenza
  sunbeam show walnut-credenza --limit 8 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Number of related products (0 = 4)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cat, err := loadSettingsAndCatalog(false)
	if err != nil {
		return err
	}

	handle := args[0]
	p, ok := cat.ByHandle(handle)
	if !ok {
		return notFoundError(
			fmt.Sprintf("no product with handle %q", handle),
			fmt.Sprintf("sunbeam search %s", handle),
		)
	}

	limit := flagLimit
	if limit <= 0 {
		limit = store.DefaultRelatedLimit
	}
	related := cat.Related(p, limit)

	if flagJSON {
		return display.PrintProductDetailJSON(cmd.OutOrStdout(), p, related)
	}
	display.PrintProductDetail(cmd.OutOrStdout(), p, related)
	return nil
}
