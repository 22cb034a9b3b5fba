package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swilhoit/sunbeam/internal/config"
	"github.com/swilhoit/sunbeam/internal/display"
	"github.com/swilhoit/sunbeam/internal/enrich"
	"github.com/swilhoit/sunbeam/internal/metrics"
	"github.com/swilhoit/sunbeam/internal/store"
)

var flagWorkers int

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Derive rooms, style, era, condition, materials and dimensions from the raw snapshot",
	Long: "Reads the raw snapshot, enriches every well-formed record and writes the catalog\n" +
		"snapshot. Malformed records are skipped and reported; they never fail the run.",
	Example: `  sunbeam enrich
  sunbeam enrich --raw scraped-data/products-raw.json --snapshot /tmp/products.json --json`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel enrichment workers (0 = config default)")
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	if flagWorkers < 0 {
		return invalidArgsError("--workers must not be negative", "sunbeam enrich --workers 4")
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

	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	m := metrics.New()
	result, err := ingestRaw(cmd.Context(), cfg.Paths, workers, log, m)
	if err != nil {
		return err
	}
	log.Info("enrich finished", zap.Any("counters", m.Totals()))

	stats := enrich.Summarize(result.Products)
	if flagJSON {
		return display.PrintStatsJSON(cmd.OutOrStdout(), stats, len(result.Rejected))
	}
	display.PrintStats(cmd.OutOrStdout(), stats, len(result.Rejected))
	return nil
}

// ingestRaw enriches the raw snapshot at paths.Raw and writes the catalog
// snapshot to paths.Snapshot.
func ingestRaw(ctx context.Context, paths config.Paths, workers int, log *zap.Logger, m *metrics.Metrics) (enrich.Result, error) {
	f, err := os.Open(paths.Raw)
	if errors.Is(err, os.ErrNotExist) {
		return enrich.Result{}, notFoundError(
			fmt.Sprintf("no raw snapshot at %s", paths.Raw),
			"sunbeam fetch",
		)
	}
	if err != nil {
		return enrich.Result{}, internalError("opening raw snapshot", err)
	}
	defer f.Close()

	pipeline := enrich.NewPipeline(log, enrich.WithWorkers(workers), enrich.WithMetrics(m))
	result, err := pipeline.Ingest(ctx, f)
	if err != nil {
		return enrich.Result{}, internalError("enriching raw snapshot", err)
	}
	if err := store.Save(paths.Snapshot, result.Products); err != nil {
		return enrich.Result{}, internalError("writing catalog snapshot", err)
	}
	return result, nil
}
