package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swilhoit/sunbeam/internal/config"
	"github.com/swilhoit/sunbeam/internal/metrics"
	"github.com/swilhoit/sunbeam/internal/server"
	"github.com/swilhoit/sunbeam/internal/store"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON HTTP API",
	Long: "Serves /products, /products/:handle, /products/:handle/related, /search,\n" +
		"/facets, /health and /metrics. Send SIGHUP to re-enrich the raw snapshot (or,\n" +
		"without one, reload the catalog snapshot); requests keep seeing the previous\n" +
		"catalog until the new one is complete.",
	Example: `  sunbeam serve
  sunbeam serve --listen 127.0.0.1:9090 --snapshot /srv/products.json`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cat, err := loadCatalog(cfg.Paths.Snapshot)
	if err != nil {
		return err
	}

	m := metrics.New()
	holder := store.NewHolder(cat)
	m.Swapped(cat.Len())

	addr := cfg.Server.ListenAddr
	if flagListen != "" {
		addr = flagListen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reloadOnHangup(ctx, holder, cfg, log, m)

	if err := server.New(holder, log, m).Run(ctx, addr); err != nil {
		return internalError("serving", err)
	}
	return nil
}

func reloadOnHangup(ctx context.Context, holder *store.Holder, cfg config.Config, log *zap.Logger, m *metrics.Metrics) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := refreshCatalog(ctx, holder, cfg, log, m); err != nil {
				log.Error("refreshing catalog", zap.Error(err))
				continue
			}
			log.Info("catalog refreshed", zap.Int("products", holder.Current().Len()))
		}
	}
}

// refreshCatalog re-enriches the raw snapshot when one exists and swaps the
// result in; otherwise it reloads the catalog snapshot. On failure the
// current catalog stays live.
func refreshCatalog(ctx context.Context, holder *store.Holder, cfg config.Config, log *zap.Logger, m *metrics.Metrics) error {
	if _, err := os.Stat(cfg.Paths.Raw); errors.Is(err, os.ErrNotExist) {
		return reloadCatalog(holder, cfg.Paths.Snapshot, m)
	}
	result, err := ingestRaw(ctx, cfg.Paths, cfg.Workers, log, m)
	if err != nil {
		return err
	}
	holder.Swap(store.New(result.Products))
	m.Swapped(len(result.Products))
	return nil
}

// reloadCatalog swaps in the snapshot at path. On failure the current
// catalog stays live.
func reloadCatalog(holder *store.Holder, path string, m *metrics.Metrics) error {
	cat, err := store.Load(path)
	if err != nil {
		return err
	}
	holder.Swap(cat)
	m.Swapped(cat.Len())
	return nil
}
