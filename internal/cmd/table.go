package cmd

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/metadata"
	"github.com/selfhostedhub/compare/internal/render"
	"github.com/selfhostedhub/compare/internal/spec"
	"github.com/selfhostedhub/compare/internal/util"
)

var (
	tableLoad loadFlags
	tableView viewFlags
)

var tableCmd = &cobra.Command{
	Use:   "table <category>",
	Short: "Render a comparison table",
	Long: `Table renders the comparison of every tool in a category once, after
applying search, feature filters, pins and expanded sections.

Examples:
  compare table media-servers
  compare table media-servers --expand all --pin jellyfin
  compare table password-managers --filter features.emergencyAccess --filter features.twoFactor
  compare table media-servers --search transcod --format json
  compare table music-streaming --where "stars > 5000 && 'Go' IN languages"
  compare table media-servers --data ./catalog --exclude "**/drafts/**" -v`,
	Args: cobra.ExactArgs(1),
	Run:  runTable,
}

func init() {
	rootCmd.AddCommand(tableCmd)

	setupOutputFlags(tableCmd, &settings.Format, &settings.OutputFile)
	tableCmd.Flags().StringVar(&settings.Color, "color", settings.Color, "Colorize text output: auto, always, never")
	addLoadFlags(tableCmd.Flags(), &tableLoad)
	addViewFlags(tableCmd, &tableView)

	formatCheck := tableCmd.PreRunE
	tableCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := formatCheck(cmd, args); err != nil {
			return err
		}
		return settings.Validate()
	}
}

// tableResult adapts a rendered table to Outputter
type tableResult struct {
	grid   render.Grid
	report render.Report
	meta   *metadata.ReportMetadata
	styled bool
}

// tableOutput is the structured form with metadata
type tableOutput struct {
	Metadata      *metadata.ReportMetadata `json:"metadata" yaml:"metadata"`
	render.Report `yaml:",inline"`
}

func (r *tableResult) ToJSON() interface{} {
	return tableOutput{Metadata: r.meta, Report: r.report}
}

func (r *tableResult) ToText(w io.Writer) error {
	return render.WriteText(w, r.grid, r.styled)
}

func runTable(cmd *cobra.Command, args []string) {
	logger := configureLogging(cmd)

	result, err := renderTable(args[0], tableLoad, tableView, logger)
	exitOnError(logger, "Failed to render table", err)

	result.styled = colorFor(settings.Color, settings.OutputFile)
	exitOnError(logger, "Failed to write output", OutputToFile(result, settings.Format, settings.OutputFile))
}

// renderTable loads the catalog and computes every output form of the table
func renderTable(category string, lf loadFlags, vf viewFlags, logger *slog.Logger) (*tableResult, error) {
	start := time.Now()

	cat, err := loadCatalog(lf, logger, os.Stderr)
	if err != nil {
		return nil, err
	}
	def, table, err := buildTable(cat, category, vf, logger)
	if err != nil {
		return nil, err
	}

	view := table.View()
	meta := metadata.NewReportMetadata(cat.Source, spec.Version, table.Now())
	meta.SetCounts(len(table.Tools()), len(view.Tools))
	meta.SetDuration(time.Since(start))

	logger.Debug("table rendered", "category", category, "visible", len(view.Tools), "duration", time.Since(start))
	return &tableResult{
		grid:   render.Build(def, table, view),
		report: render.BuildReport(def, table, view),
		meta:   meta,
	}, nil
}

// colorFor decides styling: files only get colour when forced
func colorFor(mode, outputFile string) bool {
	if outputFile != "" && outputFile != "-" {
		return util.NormalizeFormat(mode) == render.ColorAlways
	}
	return render.UseColor(mode, os.Stdout)
}
