package cmd

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/swilhoit/sunbeam/internal/display"
	"github.com/swilhoit/sunbeam/internal/filter"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalog interactively in the terminal",
	Example: `  sunbeam tui
  sunbeam tui --room Bedroom --sort price-low`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	registerProductFilterFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, _ []string) error {
	spec, err := buildFilterSpec(cmd, nil)
	if err != nil {
		return err
	}

	if flagJSON {
		cat, err := loadSettingsAndCatalog(true)
		if err != nil {
			return err
		}
		all := cat.All()
		spec.Categories = filter.ResolveCategories(spec.Categories, filter.AvailableCategories(all))
		return display.PrintProductsJSON(cmd.OutOrStdout(), filter.Apply(all, spec))
	}

	if !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`sunbeam tui` requires an interactive terminal",
			"Use `sunbeam products --json` in pipelines.",
		)
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	model := newLoadingCatalogTUIModel(tuiLoadConfig{
		snapshotPath: cfg.Paths.Snapshot,
		initialSpec:  spec,
	})
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := program.Run()
	if err != nil {
		return internalError("running tui", err)
	}
	if m, ok := final.(catalogTUIModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
