package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-enry/go-enry/v2/data"
	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/catalog"
	"github.com/selfhostedhub/compare/internal/metrics"
)

var languagesAll bool

var languagesCmd = &cobra.Command{
	Use:   "languages [category]",
	Short: "List the implementation languages of a category",
	Long: `List the implementation languages used by the tools of a category, normalized
against go-enry (GitHub Linguist). With --all, list every language known to go-enry.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if languagesAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: runLanguages,
}

func init() {
	languagesCmd.Flags().BoolVar(&languagesAll, "all", false, "List every language known to go-enry")
}

// LanguageInfo holds a normalized language and the tools using it
type LanguageInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Type       string   `json:"type" yaml:"type"`
	Known      bool     `json:"known" yaml:"known"`
	Color      string   `json:"color,omitempty" yaml:"color,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Tools      []string `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// LanguagesSummary holds summary statistics
type LanguagesSummary struct {
	Total  int            `json:"total" yaml:"total"`
	ByType map[string]int `json:"by_type" yaml:"by_type"`
}

// LanguagesResult is the output for the languages command
type LanguagesResult struct {
	Category  string           `json:"category,omitempty" yaml:"category,omitempty"`
	Languages []LanguageInfo   `json:"languages" yaml:"languages"`
	Summary   LanguagesSummary `json:"summary" yaml:"summary"`
}

func (r *LanguagesResult) ToJSON() interface{} {
	return r
}

func (r *LanguagesResult) ToText(w io.Writer) error {
	for _, lang := range r.Languages {
		if r.Category != "" {
			name := lang.Name
			if !lang.Known {
				name += " (unknown)"
			}
			fmt.Fprintf(w, "%-24s %-12s %v\n", name, lang.Type, lang.Tools)
		} else {
			fmt.Fprintf(w, "%-30s %-12s %v\n", lang.Name, lang.Type, lang.Extensions)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d languages\n", r.Summary.Total)
	fmt.Fprintf(w, "By type: programming=%d, data=%d, markup=%d, prose=%d\n",
		r.Summary.ByType["programming"], r.Summary.ByType["data"],
		r.Summary.ByType["markup"], r.Summary.ByType["prose"])
	return nil
}

func runLanguages(cmd *cobra.Command, args []string) {
	if languagesAll {
		logger := configureLogging(cmd)
		exitOnError(logger, "Failed to write output", OutputToFile(buildAllLanguagesResult(), infoFormat, infoOutput))
		return
	}
	cat, logger := loadInfoCatalog(cmd)
	result, err := buildLanguagesResult(cat, args[0])
	exitOnError(logger, "Failed to list languages", err)
	exitOnError(logger, "Failed to write output", OutputToFile(result, infoFormat, infoOutput))
}

// buildLanguagesResult groups the tools of a category by normalized language
func buildLanguagesResult(cat *catalog.Catalog, category string) (*LanguagesResult, error) {
	tools, err := cat.Tools(category)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*LanguageInfo)
	for _, t := range tools {
		for _, lang := range metrics.NormalizeLanguages(t.Language) {
			info, ok := byName[lang.Name]
			if !ok {
				info = &LanguageInfo{Name: lang.Name, Type: lang.Type, Known: lang.Known, Color: lang.Color}
				byName[lang.Name] = info
			}
			info.Tools = append(info.Tools, t.ID)
		}
	}

	result := &LanguagesResult{Category: category, Summary: LanguagesSummary{ByType: make(map[string]int)}}
	for _, info := range byName {
		result.Languages = append(result.Languages, *info)
		result.Summary.ByType[info.Type]++
	}
	sortLanguages(result.Languages)
	result.Summary.Total = len(result.Languages)
	return result, nil
}

func buildAllLanguagesResult() *LanguagesResult {
	// Build unique language set from go-enry's data
	langSet := make(map[string]bool)
	for _, langs := range data.LanguagesByExtension {
		for _, lang := range langs {
			langSet[lang] = true
		}
	}

	languages := make([]LanguageInfo, 0, len(langSet))
	byType := make(map[string]int)
	for lang := range langSet {
		norm := metrics.NormalizeLanguage(lang)
		languages = append(languages, LanguageInfo{
			Name:       lang,
			Type:       norm.Type,
			Known:      true,
			Color:      norm.Color,
			Extensions: getExtensionsForLanguage(lang),
		})
		byType[norm.Type]++
	}
	sortLanguages(languages)

	return &LanguagesResult{
		Languages: languages,
		Summary: LanguagesSummary{
			Total:  len(languages),
			ByType: byType,
		},
	}
}

// getExtensionsForLanguage returns file extensions for a language
func getExtensionsForLanguage(lang string) []string {
	var extensions []string
	for ext, langs := range data.LanguagesByExtension {
		for _, l := range langs {
			if l == lang {
				extensions = append(extensions, ext)
				break
			}
		}
	}
	sort.Strings(extensions)
	return extensions
}

func sortLanguages(languages []LanguageInfo) {
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Name < languages[j].Name
	})
}
