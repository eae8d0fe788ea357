package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/catalog"
	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/types"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <category>",
	Short: "List the sections and feature keys of a category",
	Long:  `List the sections of a category with the feature keys usable with --filter, and the keywords that open the statistics group.`,
	Args:  cobra.ExactArgs(1),
	Run:   runSections,
}

// SectionsResult is the output for the sections command
type SectionsResult struct {
	Category      string          `json:"category" yaml:"category"`
	StatsID       string          `json:"stats_id" yaml:"stats_id"`
	StatsKeywords []string        `json:"stats_keywords" yaml:"stats_keywords"`
	Sections      []types.Section `json:"sections" yaml:"sections"`
	FeatureCount  int             `json:"feature_count" yaml:"feature_count"`
}

func (r *SectionsResult) ToJSON() interface{} {
	return r
}

func (r *SectionsResult) ToText(w io.Writer) error {
	fmt.Fprintf(w, "=== %s: %d sections, %d features ===\n\n", r.Category, len(r.Sections), r.FeatureCount)
	fmt.Fprintf(w, "%s\n  search keywords: %s\n", r.StatsID, strings.Join(r.StatsKeywords, ", "))
	for _, s := range r.Sections {
		fmt.Fprintf(w, "\n%s (%s)\n", s.ID, s.Label)
		for _, item := range s.Items {
			fmt.Fprintf(w, "  %-40s %s\n", item.Key, item.Label)
		}
	}
	return nil
}

func runSections(cmd *cobra.Command, args []string) {
	cat, logger := loadInfoCatalog(cmd)
	result, err := buildSectionsResult(cat, args[0])
	exitOnError(logger, "Failed to list sections", err)
	exitOnError(logger, "Failed to write output", OutputToFile(result, infoFormat, infoOutput))
}

func buildSectionsResult(cat *catalog.Catalog, category string) (*SectionsResult, error) {
	def, err := cat.Categories.Category(category)
	if err != nil {
		return nil, err
	}
	result := &SectionsResult{
		Category:      def.ID,
		StatsID:       engine.StatsSectionID,
		StatsKeywords: engine.StatsKeywords,
		Sections:      def.Sections,
	}
	for _, s := range def.Sections {
		result.FeatureCount += len(s.Items)
	}
	return result, nil
}
