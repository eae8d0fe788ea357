package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/selfhostedhub/compare/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesConfigData []byte

// DataConfigFile is the per-directory configuration file name
const DataConfigFile = ".compare.yml"

// CategoriesFile is the category definition file of an external data directory
const CategoriesFile = "categories.yaml"

// DataConfig represents the .compare.yml file of an external data directory
type DataConfig struct {
	Exclude    []string            `yaml:"exclude,omitempty"`
	Pins       map[string][]string `yaml:"pins,omitempty"` // category id -> tool ids
	PaidCredit string              `yaml:"paid_credit,omitempty"`
}

// LoadDataConfig attempts to load .compare.yml from a data directory.
// Returns an empty config if the file doesn't exist (not an error).
func LoadDataConfig(dataDir string) (*DataConfig, error) {
	configPath := filepath.Join(dataDir, DataConfigFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &DataConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config DataConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DataConfigFile, err)
	}

	return &config, nil
}

// MergeExcludes merges config excludes with CLI excludes, dropping duplicates
// and keeping first-seen order
func (c *DataConfig) MergeExcludes(cliExcludes []string) []string {
	if c == nil {
		return cliExcludes
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(c.Exclude)+len(cliExcludes))
	for _, exclude := range append(append([]string{}, c.Exclude...), cliExcludes...) {
		if exclude == "" || seen[exclude] {
			continue
		}
		seen[exclude] = true
		result = append(result, exclude)
	}

	return result
}

// PinsFor returns the default pins of a category
func (c *DataConfig) PinsFor(category string) []string {
	if c == nil {
		return nil
	}
	return c.Pins[category]
}

// LoadCategoriesConfig loads the embedded category definitions
func LoadCategoriesConfig() (*types.CategoriesConfig, error) {
	return ParseCategoriesConfig(categoriesConfigData)
}

// LoadCategoriesFile loads category definitions from a data directory,
// falling back to the embedded definitions when the directory has none
func LoadCategoriesFile(dataDir string) (*types.CategoriesConfig, error) {
	path := filepath.Join(dataDir, CategoriesFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return LoadCategoriesConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseCategoriesConfig(data)
}

// ParseCategoriesConfig decodes a categories.yaml document
func ParseCategoriesConfig(data []byte) (*types.CategoriesConfig, error) {
	var config types.CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse categories.yaml: %w", err)
	}

	return &config, nil
}

// EmbeddedCategoriesData returns the raw embedded categories.yaml
func EmbeddedCategoriesData() []byte {
	return categoriesConfigData
}
