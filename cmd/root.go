package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/config"
	"github.com/swilhoit/sunbeam/internal/display"
	"github.com/swilhoit/sunbeam/internal/filter"
	"github.com/swilhoit/sunbeam/internal/logging"
	"github.com/swilhoit/sunbeam/internal/store"
)

var (
	flagConfig     string
	flagSnapshot   string
	flagRaw        string
	flagJSON       bool
	flagCategories []string
	flagRooms      []string
	flagStyles     []string
	flagWidths     []string
	flagDepths     []string
	flagHeights    []string
	flagMinPrice   float64
	flagMaxPrice   float64
	flagQuery      string
	flagSort       string
	flagLimit      int
)

var rootCmd = &cobra.Command{
	Use:   "sunbeam",
	Short: "Browse the enriched Sunbeam Vintage furniture catalog",
	Long: "CLI tool that fetches the Sunbeam Vintage storefront listing, enriches each piece\n" +
		"with rooms, style, era, condition, materials and dimensions, and lets you filter\n" +
		"and sort the resulting catalog.\n\n" +
		"Agent-friendly mode: minor syntax issues are auto-corrected when intent is clear " +
		"(for example: -category sofas, sort=price-low, --catgory sofas).",
	Example: `  sunbeam --category sofas
  sunbeam products --room "Living Room" --style "Mid Century" --sort price-low
  sunbeam products --width 48-60 --max-price 800 --json
  sunbeam show walnut-credenza
  sunbeam search teak
  sunbeam fetch && sunbeam enrich`,
	RunE: runProducts,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file (default $SUNBEAM_CONFIG)")
	pf.StringVar(&flagSnapshot, "snapshot", "", "Enriched catalog snapshot (default scraped-data/products.json)")
	pf.StringVar(&flagRaw, "raw", "", "Raw listing snapshot (default scraped-data/products-raw.json)")
	pf.BoolVar(&flagJSON, "json", false, "Output as JSON")

	registerProductFilterFlags(rootCmd.Flags())
}

// Execute runs the root command.
func Execute() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	resetCLIState()

	normalizedArgs, notes := normalizeCLIArgs(args)
	for _, note := range notes {
		fmt.Fprintf(stderr, "note: %s\n", note)
	}

	if len(normalizedArgs) == 0 {
		if err := printQuickStart(stdout, !isTTY(stdout)); err != nil {
			cliErr := classifyCLIError(err)
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
			return cliErr.ExitCode
		}
		return ExitSuccess
	}

	if shouldAutoJSON(normalizedArgs, isTTY(stdout)) {
		normalizedArgs = append(normalizedArgs, "--json")
	}

	setCommandIO(rootCmd, stdout, stderr)
	rootCmd.SetArgs(normalizedArgs)

	if err := rootCmd.Execute(); err != nil {
		cliErr := classifyCLIError(err)
		if hasJSONPreference(normalizedArgs) {
			if jerr := printCLIErrorJSON(stderr, cliErr); jerr != nil {
				fmt.Fprintln(stderr, formatCLIErrorText(classifyCLIError(jerr)))
				return ExitInternal
			}
		} else {
			fmt.Fprintln(stderr, formatCLIErrorText(cliErr))
		}
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func setCommandIO(cmd *cobra.Command, stdout, stderr io.Writer) {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	for _, child := range cmd.Commands() {
		setCommandIO(child, stdout, stderr)
	}
}

func resetCLIState() {
	flagConfig = ""
	flagSnapshot = ""
	flagRaw = ""
	flagJSON = false
	flagCategories = nil
	flagRooms = nil
	flagStyles = nil
	flagWidths = nil
	flagDepths = nil
	flagHeights = nil
	flagMinPrice = 0
	flagMaxPrice = 0
	flagQuery = ""
	flagSort = ""
	flagLimit = 0
	flagListen = ""
	flagWorkers = 0
	resetChanged(rootCmd)
}

// resetChanged clears pflag's Changed marks so optional price bounds are
// detected per run. Boolean flags such as --help go back to their defaults.
func resetChanged(cmd *cobra.Command) {
	unmark := func(f *pflag.Flag) {
		if f.Value.Type() == "bool" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(unmark)
	cmd.PersistentFlags().VisitAll(unmark)
	for _, child := range cmd.Commands() {
		resetChanged(child)
	}
}

func registerProductFilterFlags(f *pflag.FlagSet) {
	f.StringSliceVarP(&flagCategories, "category", "c", nil, "Filter by category; repeat or comma-separate (e.g., sofas,chairs)")
	f.StringSliceVar(&flagRooms, "room", nil, "Filter by room (e.g., \"Living Room\", Bedroom)")
	f.StringSliceVar(&flagStyles, "style", nil, "Filter by style (e.g., \"Mid Century\", Modern)")
	f.StringSliceVar(&flagWidths, "width", nil, "Filter by width range: 0-24, 24-36, 36-48, 48-60, 60-72, 72+")
	f.StringSliceVar(&flagDepths, "depth", nil, "Filter by depth range (same ranges as --width)")
	f.StringSliceVar(&flagHeights, "height", nil, "Filter by height range (same ranges as --width)")
	f.Float64Var(&flagMinPrice, "min-price", 0, "Minimum price in dollars")
	f.Float64Var(&flagMaxPrice, "max-price", 0, "Maximum price in dollars")
	f.StringVarP(&flagQuery, "query", "q", "", "Search products by keyword")
	f.StringVarP(&flagSort, "sort", "s", "", "Sort by newest, price-low, price-high, or name")
	f.IntVarP(&flagLimit, "limit", "n", 0, "Limit number of results (0 = all)")
}

// loadSettings reads configuration and applies the persistent flags on top.
func loadSettings() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, invalidArgsError(
			fmt.Sprintf("loading configuration: %v", err),
			"sunbeam --config sunbeam.yaml products",
		)
	}
	if flagSnapshot != "" {
		cfg.Paths.Snapshot = flagSnapshot
	}
	if flagRaw != "" {
		cfg.Paths.Raw = flagRaw
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, internalError("building logger", err)
	}
	return log, nil
}

func loadCatalog(path string) (*store.Catalog, error) {
	cat, err := store.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, missingSnapshotError(path)
	}
	if err != nil {
		return nil, internalError("loading catalog", err)
	}
	return cat, nil
}

// loadSettingsAndCatalog is the common prelude of the read-only commands.
// Listing commands pass requireProducts; an empty catalog still has facets.
func loadSettingsAndCatalog(requireProducts bool) (*store.Catalog, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(cfg.Paths.Snapshot)
	if err != nil {
		return nil, err
	}
	if requireProducts && cat.Len() == 0 {
		return nil, notFoundError(
			fmt.Sprintf("catalog is empty: %s", cfg.Paths.Snapshot),
			"sunbeam fetch && sunbeam enrich",
		)
	}
	return cat, nil
}

// buildFilterSpec turns the filter flags into a filter.Spec. Category names
// are resolved against the catalog so "couch" finds "Sofas".
func buildFilterSpec(cmd *cobra.Command, products []catalog.EnrichedProduct) (filter.Spec, error) {
	var spec filter.Spec
	var err error

	if len(flagCategories) > 0 {
		spec.Categories = filter.ResolveCategories(flagCategories, filter.AvailableCategories(products))
	}
	if spec.Rooms, err = parseFlagValues("room", flagRooms, catalog.AllRooms()); err != nil {
		return filter.Spec{}, err
	}
	if spec.Styles, err = parseFlagValues("style", flagStyles, catalog.AllStyles()); err != nil {
		return filter.Spec{}, err
	}
	if spec.Widths, err = parseFlagValues("width", flagWidths, filter.AllBuckets()); err != nil {
		return filter.Spec{}, err
	}
	if spec.Depths, err = parseFlagValues("depth", flagDepths, filter.AllBuckets()); err != nil {
		return filter.Spec{}, err
	}
	if spec.Heights, err = parseFlagValues("height", flagHeights, filter.AllBuckets()); err != nil {
		return filter.Spec{}, err
	}

	if cmd.Flags().Changed("min-price") {
		v := flagMinPrice
		spec.MinPrice = &v
	}
	if cmd.Flags().Changed("max-price") {
		v := flagMaxPrice
		spec.MaxPrice = &v
	}
	if spec.MinPrice != nil && spec.MaxPrice != nil && *spec.MinPrice > *spec.MaxPrice {
		return filter.Spec{}, invalidArgsError(
			"--min-price must not exceed --max-price",
			"sunbeam products --min-price 100 --max-price 500",
		)
	}

	var ok bool
	if spec.Sort, ok = filter.ParseSort(flagSort); !ok {
		return filter.Spec{}, invalidArgsError(
			"invalid value for --sort (use newest, price-low, price-high, or name)",
			"sunbeam products --sort price-low",
			"sunbeam products --sort name",
		)
	}
	if flagLimit < 0 {
		return filter.Spec{}, invalidArgsError("--limit must not be negative", "sunbeam products --limit 10")
	}

	spec.Query = strings.TrimSpace(flagQuery)
	spec.Limit = flagLimit
	return spec, nil
}

// parseFlagValues matches each raw value against the closed set all,
// ignoring case and accepting hyphens for spaces.
func parseFlagValues[T fmt.Stringer](flag string, raw []string, all []T) ([]T, error) {
	var out []T
	for _, value := range raw {
		want := strings.ReplaceAll(strings.TrimSpace(value), "-", " ")
		found := false
		for _, candidate := range all {
			label := strings.ReplaceAll(candidate.String(), "-", " ")
			if strings.EqualFold(label, want) {
				out = append(out, candidate)
				found = true
				break
			}
		}
		if !found {
			choices := make([]string, len(all))
			for i, c := range all {
				choices[i] = c.String()
			}
			return nil, invalidArgsError(
				fmt.Sprintf("invalid value %q for --%s (use %s)", value, flag, strings.Join(choices, ", ")),
				fmt.Sprintf("sunbeam facets   # lists the %s values present in the catalog", flag),
			)
		}
	}
	return out, nil
}

func printProducts(cmd *cobra.Command, products []catalog.EnrichedProduct, total int) error {
	if flagJSON {
		return display.PrintProductsJSON(cmd.OutOrStdout(), products)
	}
	display.PrintProducts(cmd.OutOrStdout(), products, total)
	return nil
}
