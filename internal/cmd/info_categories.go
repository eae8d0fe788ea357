package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/catalog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List all comparison categories",
	Long:  `List all comparison categories with their descriptions, section and tool counts.`,
	Args:  cobra.NoArgs,
	Run:   runCategories,
}

// CategoryInfo represents a single category entry
type CategoryInfo struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    int    `json:"sections" yaml:"sections"`
	Tools       int    `json:"tools" yaml:"tools"`
}

// CategoriesResult is the output for the categories command
type CategoriesResult struct {
	Source     string         `json:"source" yaml:"source"`
	Categories []CategoryInfo `json:"categories" yaml:"categories"`
	Count      int            `json:"count" yaml:"count"`
}

func (r *CategoriesResult) ToJSON() interface{} {
	return r
}

func (r *CategoriesResult) ToText(w io.Writer) error {
	fmt.Fprintf(w, "=== Categories (%d) from %s ===\n\n", r.Count, r.Source)
	for _, c := range r.Categories {
		fmt.Fprintf(w, "%-20s %s (%d sections, %d tools)\n", c.ID, c.Title, c.Sections, c.Tools)
		if c.Description != "" {
			fmt.Fprintf(w, "  %s\n", c.Description)
		}
	}
	return nil
}

func runCategories(cmd *cobra.Command, args []string) {
	cat, logger := loadInfoCatalog(cmd)
	exitOnError(logger, "Failed to write output", OutputToFile(buildCategoriesResult(cat), infoFormat, infoOutput))
}

// buildCategoriesResult keeps configuration order
func buildCategoriesResult(cat *catalog.Catalog) *CategoriesResult {
	result := &CategoriesResult{Source: cat.Source}
	for _, def := range cat.Categories.Categories {
		tools, _ := cat.Tools(def.ID)
		result.Categories = append(result.Categories, CategoryInfo{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Sections:    len(def.Sections),
			Tools:       len(tools),
		})
	}
	result.Count = len(result.Categories)
	return result
}
