package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/selfhostedhub/compare/internal/catalog"
	"github.com/selfhostedhub/compare/internal/metrics"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <category>",
	Short: "List the tools of a category",
	Long:  `List the tools of a category with license, popularity and review status, in display order.`,
	Args:  cobra.ExactArgs(1),
	Run:   runTools,
}

// ToolInfo summarizes one record
type ToolInfo struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	License      string `json:"license" yaml:"license"`
	LicenseClass string `json:"license_class" yaml:"license_class"`
	OpenSource   bool   `json:"open_source" yaml:"open_source"`
	Stars        int    `json:"stars" yaml:"stars"`
	Popularity   string `json:"popularity" yaml:"popularity"`
	CheckedAt    string `json:"checked_version,omitempty" yaml:"checked_version,omitempty"`
	Features     int    `json:"features" yaml:"features"`
	Stale        int    `json:"stale_features" yaml:"stale_features"`
}

// ToolsResult is the output for the tools command
type ToolsResult struct {
	Category string     `json:"category" yaml:"category"`
	Tools    []ToolInfo `json:"tools" yaml:"tools"`
	Count    int        `json:"count" yaml:"count"`
}

func (r *ToolsResult) ToJSON() interface{} {
	return r
}

func (r *ToolsResult) ToText(w io.Writer) error {
	fmt.Fprintf(w, "=== %s: %d tools ===\n\n", r.Category, r.Count)
	for _, t := range r.Tools {
		stars := "–"
		if t.Stars > 0 {
			stars = metrics.FormatCount(t.Stars)
		}
		fmt.Fprintf(w, "%-16s %-18s %-14s %8s  %s\n", t.ID, t.Name, t.License, stars, t.Popularity)
		if t.Stale > 0 {
			fmt.Fprintf(w, "  %d of %d features verified before %s\n", t.Stale, t.Features, t.CheckedAt)
		}
	}
	return nil
}

func runTools(cmd *cobra.Command, args []string) {
	cat, logger := loadInfoCatalog(cmd)
	result, err := buildToolsResult(cat, args[0], time.Now())
	exitOnError(logger, "Failed to list tools", err)
	exitOnError(logger, "Failed to write output", OutputToFile(result, infoFormat, infoOutput))
}

func buildToolsResult(cat *catalog.Catalog, category string, now time.Time) (*ToolsResult, error) {
	tools, err := cat.Tools(category)
	if err != nil {
		return nil, err
	}
	result := &ToolsResult{Category: category}
	for _, t := range tools {
		info := ToolInfo{
			ID:           t.ID,
			Name:         t.Name,
			License:      t.License,
			LicenseClass: string(metrics.ClassifyLicense(t.License)),
			OpenSource:   t.OpenSource,
			Stars:        t.Stars(),
			Popularity:   metrics.Popularity(t, now),
			CheckedAt:    metrics.CurrentVersion(t),
			Features:     len(t.Features),
		}
		for _, fs := range t.Features {
			if metrics.VerificationLag(fs, info.CheckedAt) {
				info.Stale++
			}
		}
		result.Tools = append(result.Tools, info)
	}
	result.Count = len(result.Tools)
	return result, nil
}
