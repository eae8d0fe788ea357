package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/selfhostedhub/compare/internal/types"
	"github.com/selfhostedhub/compare/internal/validation"
)

// Converter turns JSON tool records into the YAML layout of a data directory
type Converter struct {
	sourceDir string
	targetDir string
	category  string
	validate  bool
	stats     map[string]int
}

// NewConverter creates a new converter instance
func NewConverter(sourceDir, targetDir, category string, validate bool) *Converter {
	return &Converter{
		sourceDir: sourceDir,
		targetDir: targetDir,
		category:  category,
		validate:  validate,
		stats:     make(map[string]int),
	}
}

// ConvertAll converts every JSON record below the source directory
func (c *Converter) ConvertAll(limit int, dryRun bool) error {
	files, err := c.findJSONFiles()
	if err != nil {
		return fmt.Errorf("failed to find JSON files: %w", err)
	}
	if limit > 0 && limit < len(files) {
		files = files[:limit]
	}

	log.Printf("Found %d JSON record files", len(files))

	if !dryRun {
		if err := os.MkdirAll(filepath.Join(c.targetDir, c.category), 0755); err != nil {
			return fmt.Errorf("failed to create target directory: %w", err)
		}
	}

	converted := 0
	errors := 0
	for _, file := range files {
		tools, err := c.readRecords(file)
		if err != nil {
			log.Printf("✗ Error reading %s: %v", filepath.Base(file), err)
			errors++
			continue
		}

		for _, tool := range tools {
			target := filepath.Join(c.targetDir, c.category, tool.ID+".yaml")
			if !dryRun {
				if err := writeRecord(tool, target); err != nil {
					log.Printf("✗ Error writing %s: %v", tool.ID, err)
					errors++
					continue
				}
			}
			c.stats[c.category]++
			converted++
			log.Printf("✓ %s -> %s/%s.yaml (%d features)", filepath.Base(file), c.category, tool.ID, len(tool.Features))
		}
	}

	log.Printf("Conversion complete: %d converted, %d errors, target: %s", converted, errors, c.targetDir)
	if errors > 0 {
		return fmt.Errorf("%d records failed", errors)
	}
	return nil
}

// findJSONFiles finds all .json files in the source directory, sorted
func (c *Converter) findJSONFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(c.sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// readRecords decodes a file holding one record or an array of records
func (c *Converter) readRecords(file string) ([]*types.Tool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, err
		}
	} else {
		raws = []json.RawMessage{data}
	}

	tools := make([]*types.Tool, 0, len(raws))
	for i, raw := range raws {
		if c.validate {
			if err := validation.ValidateJSONBytes(validation.ToolSchema, raw); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
		var tool types.Tool
		if err := json.Unmarshal(raw, &tool); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if tool.ID == "" {
			return nil, fmt.Errorf("record %d has no id", i)
		}
		tools = append(tools, &tool)
	}
	return tools, nil
}

// writeRecord writes a tool as YAML with two-space indentation
func writeRecord(tool *types.Tool, target string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tool); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(target, buf.Bytes(), 0644)
}

// PrintStats logs the number of converted records per category
func (c *Converter) PrintStats() {
	if len(c.stats) == 0 {
		return
	}

	log.Printf("Statistics by category:")
	var categories []string
	for category := range c.stats {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	total := 0
	for _, category := range categories {
		count := c.stats[category]
		log.Printf("  %s: %d records", category, count)
		total += count
	}
	log.Printf("  Total: %d records", total)
}

func main() {
	var (
		sourceDir = flag.String("source", "./scripts/data", "Source directory containing JSON tool records")
		targetDir = flag.String("target", "./catalog", "Target data directory (records go to <target>/<category>/)")
		category  = flag.String("category", "", "Category id the records belong to (required)")
		limit     = flag.Int("limit", 0, "Limit number of files to convert (for testing)")
		dryRun    = flag.Bool("dry-run", false, "Show what would be converted without writing files")
		noCheck   = flag.Bool("no-validate", false, "Skip JSON schema validation of source records")
		stats     = flag.Bool("stats", false, "Show conversion statistics")
	)
	flag.Parse()

	if *category == "" {
		log.Fatalf("-category is required")
	}

	log.Printf("Tool Record Converter")
	log.Printf("Source: %s", *sourceDir)
	log.Printf("Target: %s/%s", *targetDir, *category)
	if *limit > 0 {
		log.Printf("Limit: %d files", *limit)
	}
	if *dryRun {
		log.Printf("DRY RUN MODE - No files will be written")
	}

	converter := NewConverter(*sourceDir, *targetDir, *category, !*noCheck)
	if err := converter.ConvertAll(*limit, *dryRun); err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	if *stats {
		converter.PrintStats()
	}

	log.Printf("Next steps:")
	log.Printf("1. Review the records in %s/%s/", *targetDir, *category)
	log.Printf("2. Validate them: compare validate --data %s", *targetDir)
	log.Printf("3. Render the table: compare table %s --data %s", *category, *targetDir)
}
