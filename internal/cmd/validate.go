package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/config"
	"github.com/selfhostedhub/compare/internal/validation"
)

var (
	validateLoad   loadFlags
	validateSchema string
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate data files against their JSON schemas",
	Long: `Validate checks tool records, categories.yaml and .compare.yml against their
JSON schemas. Without arguments the whole catalog (embedded or --data) is loaded
with validation on.

Examples:
  compare validate --data ./catalog
  compare validate ./catalog/media-servers/jellyfin.yaml
  compare validate --schema categories ./my-categories.yaml`,
	Run: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addLoadFlags(validateCmd.Flags(), &validateLoad)
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema for every file: tool-record, categories, compare-yml (default: by file name)")
}

func runValidate(cmd *cobra.Command, args []string) {
	logger := configureLogging(cmd)

	if len(args) == 0 {
		validateLoad.noValidate = false
		cat, err := loadCatalog(validateLoad, logger, os.Stderr)
		exitOnError(logger, "Validation failed", err)
		fmt.Fprintf(os.Stdout, "%s: %d categories, %d tools valid\n", cat.Source, len(cat.Categories.Categories), cat.Count())
		return
	}

	schema, err := resolveSchema(validateSchema)
	exitOnError(logger, "Invalid --schema", err)

	if failed := validateFiles(os.Stdout, args, schema); failed > 0 {
		exitOnError(logger, "Validation failed", fmt.Errorf("%d of %d files invalid", failed, len(args)))
	}
}

// validateFiles reports each file and returns the number of failures
func validateFiles(w io.Writer, files []string, schema string) int {
	failed := 0
	for _, file := range files {
		name := schema
		if name == "" {
			name = schemaFor(file)
		}
		if err := validation.ValidateFile(name, file); err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s (%s)\n%v\n", file, name, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%s)\n", file, name)
	}
	return failed
}

// resolveSchema accepts schema names with or without the .json suffix
func resolveSchema(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	available, err := validation.ListAvailableSchemas()
	if err != nil {
		return "", err
	}
	for _, s := range available {
		if s == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown schema %q (available: %s)", name, strings.Join(available, ", "))
}

// schemaFor picks the schema by file name
func schemaFor(file string) string {
	switch filepath.Base(file) {
	case config.CategoriesFile:
		return validation.CategoriesSchema
	case config.DataConfigFile:
		return validation.DataConfigSchema
	default:
		return validation.ToolSchema
	}
}
