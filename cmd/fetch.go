package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swilhoit/sunbeam/internal/api"
	"github.com/swilhoit/sunbeam/internal/metrics"
	"github.com/swilhoit/sunbeam/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the storefront listing into the raw snapshot",
	Long: "Pages through the storefront products.json listing, converts each product\n" +
		"(HTML description to text, high-resolution image URLs) and writes the raw snapshot.",
	Example: `  sunbeam fetch
  sunbeam fetch --limit 50 --raw /tmp/raw.json`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Stop after this many products (0 = all)")
}

type fetchSummary struct {
	Products int    `json:"products"`
	Path     string `json:"path"`
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if flagLimit < 0 {
		return invalidArgsError("--limit must not be negative", "sunbeam fetch --limit 50")
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	client := api.NewClient(api.Options{
		BaseURL:     cfg.Storefront.URL,
		PageSize:    cfg.Storefront.PageSize,
		PageDelay:   cfg.Storefront.PageDelay,
		MaxAttempts: cfg.Storefront.MaxAttempts,
		RetryWait:   cfg.Storefront.RetryWait,
		Timeout:     cfg.Storefront.RequestTimeout,
		Logger:      log,
		Metrics:     m,
	})

	products, err := client.FetchAllProducts(cmd.Context(), flagLimit)
	log.Info("fetch finished", zap.Any("counters", m.Totals()))
	if err != nil {
		return upstreamError("fetching products", err)
	}
	if len(products) == 0 {
		return notFoundError(
			fmt.Sprintf("no products returned by %s", cfg.Storefront.URL),
			"Check storefront.url in your config or SUNBEAM_STORE_URL.",
		)
	}

	if err := store.SaveRaw(cfg.Paths.Raw, api.ToRawProducts(products)); err != nil {
		return internalError("writing raw snapshot", err)
	}

	summary := fetchSummary{Products: len(products), Path: cfg.Paths.Raw}
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d products into %s\nnext: sunbeam enrich\n", summary.Products, summary.Path)
	return nil
}
