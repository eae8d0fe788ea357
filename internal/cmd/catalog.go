package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/selfhostedhub/compare/internal/catalog"
	"github.com/selfhostedhub/compare/internal/config"
	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/progress"
	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
	"github.com/selfhostedhub/compare/internal/util"
)

// expandAll opens the statistics group and every section
const expandAll = "all"

// loadFlags control where and how the catalog is read
type loadFlags struct {
	excludes   []string
	verbose    bool
	noValidate bool
}

func addLoadFlags(flags *pflag.FlagSet, f *loadFlags) {
	flags.StringVar(&settings.DataDir, "data", settings.DataDir, "Data directory with categories.yaml and <category>/ records (default: embedded catalog)")
	flags.StringSliceVar(&f.excludes, "exclude", nil, "Glob patterns of record files to skip (supports **, can be specified multiple times)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Show catalog loading progress on stderr")
	flags.BoolVar(&f.noValidate, "no-validate", false, "Skip JSON schema validation of data files")
}

// loadCatalog reads the embedded catalog or settings.DataDir
func loadCatalog(f loadFlags, logger *slog.Logger, progressOut io.Writer) (*catalog.Catalog, error) {
	opts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithExcludes(util.SplitList(f.excludes)),
		catalog.WithValidation(!f.noValidate),
	}
	if settings.DataDir != "" {
		opts = append(opts, catalog.WithDataDir(settings.DataDir))
	}
	if f.verbose {
		opts = append(opts, catalog.WithProgress(progress.New(true, progress.NewSimpleHandler(progressOut))))
	}
	return catalog.NewLoader(opts...).Load()
}

// viewFlags hold the initial interaction state of a table
type viewFlags struct {
	search     string
	where      string
	paidCredit string
	preset     string
	filters    []string
	pins       []string
	expand     []string
}

func addViewFlags(cmd *cobra.Command, v *viewFlags) {
	cmd.Flags().StringVarP(&v.search, "search", "s", "", "Highlight matching labels and open their sections (at least 2 characters)")
	cmd.Flags().StringSliceVar(&v.filters, "filter", nil, "Only show tools supporting this feature key (repeatable, all must hold)")
	cmd.Flags().StringSliceVarP(&v.pins, "pin", "p", nil, "Pin tool ids to the front (repeatable)")
	cmd.Flags().StringSliceVarP(&v.expand, "expand", "e", nil, "Open sections by id, or 'all'")
	cmd.Flags().StringVarP(&v.where, "where", "w", "", "Boolean expression over tool stats, e.g. \"stars > 1000 && openSource\"")
	cmd.Flags().StringVar(&v.paidCredit, "paid-credit", "", "Score of Paid features: half or full (default from .compare.yml or COMPARE_PAID_CREDIT)")
	cmd.Flags().StringVar(&v.preset, "preset", "", "Saved view: YAML/JSON file or inline JSON")
}

// buildTable resolves the category and applies the view flags. Command line
// values win over the preset; default pins from .compare.yml are added.
func buildTable(cat *catalog.Catalog, category string, v viewFlags, logger *slog.Logger) (*types.CategoryDefinition, *engine.Table, error) {
	def, err := cat.Categories.Category(category)
	if err != nil {
		return nil, nil, err
	}
	tools, err := cat.Tools(category)
	if err != nil {
		return nil, nil, err
	}

	preset, err := config.LoadPreset(v.preset)
	if err != nil {
		return nil, nil, err
	}
	preset.Merge(&v.search, &v.where, &v.paidCredit, &v.filters, &v.pins, &v.expand)

	credit := firstNonEmpty(v.paidCredit, cat.Config.PaidCredit, settings.PaidCredit)
	policy, err := scoring.ParsePaidCredit(credit)
	if err != nil {
		return nil, nil, err
	}

	table := engine.NewTable(tools, def.Sections, engine.WithPaidCredit(policy), engine.WithLogger(logger))

	for _, id := range util.SplitList(append(append([]string(nil), cat.Config.PinsFor(category)...), v.pins...)) {
		if _, ok := cat.Tool(category, id); !ok {
			return nil, nil, fmt.Errorf("unknown tool %q in %s (available: %s)", id, category, strings.Join(toolIDs(tools), ", "))
		}
		table.SetPinned(id, true)
	}

	for _, key := range util.SplitList(v.filters) {
		if !hasFeatureKey(def, key) {
			return nil, nil, fmt.Errorf("unknown feature key %q in %s (see: compare info sections %s)", key, category, category)
		}
		table.SetFilter(key, true)
	}

	for _, id := range util.SplitList(v.expand) {
		switch {
		case id == expandAll:
			table.SetSectionOpen(engine.StatsSectionID, true)
			for _, s := range def.Sections {
				table.SetSectionOpen(s.ID, true)
			}
		case id == engine.StatsSectionID:
			table.SetSectionOpen(id, true)
		default:
			if _, ok := def.Section(id); !ok {
				return nil, nil, fmt.Errorf("unknown section %q in %s (available: %s, %s)", id, category, engine.StatsSectionID, strings.Join(sectionIDs(def), ", "))
			}
			table.SetSectionOpen(id, true)
		}
	}

	table.SetSearch(v.search)
	if err := table.SetWhere(v.where); err != nil {
		return nil, nil, fmt.Errorf("invalid --where expression: %w", err)
	}

	logger.Debug("table configured",
		"category", category,
		"tools", len(tools),
		"filters", table.Filters(),
		"pinned", table.Pinned(),
		"paid_credit", policy.String())
	return def, table, nil
}

func hasFeatureKey(def *types.CategoryDefinition, key string) bool {
	for _, s := range def.Sections {
		for _, item := range s.Items {
			if item.Key == key {
				return true
			}
		}
	}
	return false
}

func toolIDs(tools []*types.Tool) []string {
	ids := make([]string, len(tools))
	for i, t := range tools {
		ids[i] = t.ID
	}
	return ids
}

func sectionIDs(def *types.CategoryDefinition) []string {
	ids := make([]string, len(def.Sections))
	for i, s := range def.Sections {
		ids[i] = s.ID
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
