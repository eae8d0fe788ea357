package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/tui"
)

var (
	browseLoad loadFlags
	browseView viewFlags
)

var browseCmd = &cobra.Command{
	Use:   "browse <category>",
	Short: "Browse a comparison table interactively",
	Long: `Browse opens the comparison table in the terminal.

Keys:
  ↑/↓ j/k      move between rows       ←/→ h/l   move between tools
  enter/space  expand a section, or toggle the filter of a feature row
  f            toggle the filter of a feature row
  p            pin or unpin the tool under the cursor
  r            reset filters
  /            search, esc clears
  ?            full help, q quits

The view flags of the table command set the initial state.`,
	Args: cobra.ExactArgs(1),
	Run:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addLoadFlags(browseCmd.Flags(), &browseLoad)
	addViewFlags(browseCmd, &browseView)
}

func runBrowse(cmd *cobra.Command, args []string) {
	logger := configureLogging(cmd)

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		exitOnError(logger, "Cannot browse", fmt.Errorf("stdout is not a terminal; use 'compare table %s' instead", args[0]))
	}

	cat, err := loadCatalog(browseLoad, logger, os.Stderr)
	exitOnError(logger, "Failed to load catalog", err)

	def, table, err := buildTable(cat, args[0], browseView, logger)
	exitOnError(logger, "Failed to configure table", err)

	m := tui.New(def, table, tui.WithLogger(logger))
	exitOnError(logger, "Browser failed", tui.Run(cmd.Context(), m, os.Stdin, os.Stdout))
}
