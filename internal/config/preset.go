package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is a saved table view: the interaction state to apply before
// rendering. It is read from a YAML/JSON file or inline JSON.
type Preset struct {
	Search     string   `yaml:"search,omitempty" json:"search,omitempty"`
	Filters    []string `yaml:"filters,omitempty" json:"filters,omitempty"`
	Pins       []string `yaml:"pins,omitempty" json:"pins,omitempty"`
	Expand     []string `yaml:"expand,omitempty" json:"expand,omitempty"`
	Where      string   `yaml:"where,omitempty" json:"where,omitempty"`
	PaidCredit string   `yaml:"paid_credit,omitempty" json:"paid_credit,omitempty"`
}

// LoadPreset loads a preset from file path or inline JSON
func LoadPreset(pathOrJSON string) (*Preset, error) {
	if pathOrJSON == "" {
		return nil, nil
	}

	if strings.HasPrefix(strings.TrimSpace(pathOrJSON), "{") {
		var preset Preset
		if err := json.Unmarshal([]byte(pathOrJSON), &preset); err != nil {
			return nil, fmt.Errorf("failed to parse inline JSON preset: %w", err)
		}
		return &preset, nil
	}

	data, err := os.ReadFile(pathOrJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset Preset
	// Try YAML first (JSON documents usually parse as YAML too)
	if err := yaml.Unmarshal(data, &preset); err != nil {
		if jsonErr := json.Unmarshal(data, &preset); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse preset as YAML (%v) or JSON (%v)", err, jsonErr)
		}
	}
	return &preset, nil
}

// Merge fills empty fields of dst from the preset. Values already set
// on the command line win; list values are appended.
func (p *Preset) Merge(search, where, paidCredit *string, filters, pins, expand *[]string) {
	if p == nil {
		return
	}
	if *search == "" {
		*search = p.Search
	}
	if *where == "" {
		*where = p.Where
	}
	if *paidCredit == "" {
		*paidCredit = p.PaidCredit
	}
	*filters = append(*filters, p.Filters...)
	*pins = append(*pins, p.Pins...)
	*expand = append(*expand, p.Expand...)
}
