package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/catalog"
)

var (
	infoLoad   loadFlags
	infoFormat = "text"
	infoOutput string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display information about categories, sections, tools, and languages",
	Long:  `Display the categories of the catalog, the sections and feature keys of a category, its tools, and the implementation languages they use.`,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addLoadFlags(infoCmd.PersistentFlags(), &infoLoad)

	infoCmd.AddCommand(categoriesCmd)
	infoCmd.AddCommand(sectionsCmd)
	infoCmd.AddCommand(toolsCmd)
	infoCmd.AddCommand(languagesCmd)
	for _, c := range infoCmd.Commands() {
		setupOutputFlags(c, &infoFormat, &infoOutput)
	}
}

// loadInfoCatalog loads the catalog for an info subcommand or exits
func loadInfoCatalog(cmd *cobra.Command) (*catalog.Catalog, *slog.Logger) {
	logger := configureLogging(cmd)
	cat, err := loadCatalog(infoLoad, logger, os.Stderr)
	exitOnError(logger, "Failed to load catalog", err)
	return cat, logger
}
