package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotAvailable is the sentinel used for missing dates
const NotAvailable = "N/A"

// GitHubStats holds repository statistics captured by the maintenance tooling
type GitHubStats struct {
	Stars      int    `json:"stars" yaml:"stars"`
	Forks      int    `json:"forks" yaml:"forks"`
	LastCommit string `json:"lastCommit" yaml:"lastCommit"`
	OpenIssues int    `json:"openIssues" yaml:"openIssues"`
}

// Performance holds human readable resource figures such as "150 MB"
type Performance struct {
	RAMUsage        string `json:"ramUsage,omitempty" yaml:"ramUsage,omitempty"`
	DockerImageSize string `json:"dockerImageSize,omitempty" yaml:"dockerImageSize,omitempty"`
}

// LastCheck records the release a record was last reviewed against
type LastCheck struct {
	Date          string `json:"date" yaml:"date"`
	Version       string `json:"version" yaml:"version"`
	ChangelogLink string `json:"changelogLink,omitempty" yaml:"changelogLink,omitempty"`
}

// Meta groups review metadata
type Meta struct {
	LastCheck *LastCheck `json:"lastCheck,omitempty" yaml:"lastCheck,omitempty"`
}

// Tool is a single comparison record.
// Feature groups of any category are flattened into Features by dotted key,
// so consumers stay agnostic of which keys a category defines.
type Tool struct {
	ID          string
	Name        string
	Description string
	Website     string
	Repository  string
	License     string
	OpenSource  bool
	GitHubStats *GitHubStats
	Language    []string
	Performance *Performance
	Notes       string
	Meta        *Meta
	Features    map[string]FeatureStatus
}

// fields decoded into the typed part of Tool; anything else may hold features
var recordFields = map[string]bool{
	"id": true, "name": true, "description": true, "website": true,
	"repository": true, "license": true, "openSource": true, "githubStats": true,
	"language": true, "performance": true, "notes": true, "meta": true,
	// authoring-only fields kept out of the feature map
	"automation": true, "version": true, "link": true,
}

// Feature resolves a dotted key. The second result is false when the path
// does not exist on this tool.
func (t *Tool) Feature(key string) (FeatureStatus, bool) {
	if t == nil || t.Features == nil {
		return FeatureStatus{}, false
	}
	fs, ok := t.Features[key]
	return fs, ok
}

// FeatureKeys returns all feature keys in sorted order
func (t *Tool) FeatureKeys() []string {
	keys := make([]string, 0, len(t.Features))
	for k := range t.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetFeature stores a status under a dotted key
func (t *Tool) SetFeature(key string, fs FeatureStatus) {
	if t.Features == nil {
		t.Features = make(map[string]FeatureStatus)
	}
	t.Features[key] = fs
}

// Stars returns the star count, zero when no stats are present
func (t *Tool) Stars() int {
	if t.GitHubStats == nil {
		return 0
	}
	return t.GitHubStats.Stars
}

// Forks returns the fork count, zero when no stats are present
func (t *Tool) Forks() int {
	if t.GitHubStats == nil {
		return 0
	}
	return t.GitHubStats.Forks
}

// LastCommit returns the last commit timestamp or the N/A sentinel
func (t *Tool) LastCommit() string {
	if t.GitHubStats == nil || t.GitHubStats.LastCommit == "" {
		return NotAvailable
	}
	return t.GitHubStats.LastCommit
}

// RAMUsage returns the raw RAM figure, empty when unknown
func (t *Tool) RAMUsage() string {
	if t.Performance == nil {
		return ""
	}
	return t.Performance.RAMUsage
}

// DockerImageSize returns the raw image size figure, empty when unknown
func (t *Tool) DockerImageSize() string {
	if t.Performance == nil {
		return ""
	}
	return t.Performance.DockerImageSize
}

// UnmarshalJSON decodes a record, flattening nested feature groups
func (t *Tool) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return t.FromMap(raw)
}

// UnmarshalYAML decodes a record, flattening nested feature groups
func (t *Tool) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return t.FromMap(raw)
}

// FromMap fills the tool from a generic decoded document
func (t *Tool) FromMap(raw map[string]interface{}) error {
	*t = Tool{Features: make(map[string]FeatureStatus)}

	t.ID = stringField(raw, "id")
	t.Name = stringField(raw, "name")
	t.Description = stringField(raw, "description")
	t.Website = stringField(raw, "website")
	t.Repository = stringField(raw, "repository")
	t.License = stringField(raw, "license")
	t.Notes = stringField(raw, "notes")
	if b, ok := raw["openSource"].(bool); ok {
		t.OpenSource = b
	}

	if langs, ok := raw["language"].([]interface{}); ok {
		for _, l := range langs {
			if s, ok := l.(string); ok {
				t.Language = append(t.Language, s)
			}
		}
	}

	if gh, ok := raw["githubStats"].(map[string]interface{}); ok {
		t.GitHubStats = &GitHubStats{
			Stars:      intField(gh, "stars"),
			Forks:      intField(gh, "forks"),
			LastCommit: stringField(gh, "lastCommit"),
			OpenIssues: intField(gh, "openIssues"),
		}
	}

	if perf, ok := raw["performance"].(map[string]interface{}); ok {
		t.Performance = &Performance{
			RAMUsage:        stringField(perf, "ramUsage"),
			DockerImageSize: stringField(perf, "dockerImageSize"),
		}
	}

	if meta, ok := raw["meta"].(map[string]interface{}); ok {
		t.Meta = &Meta{}
		if lc, ok := meta["lastCheck"].(map[string]interface{}); ok {
			t.Meta.LastCheck = &LastCheck{
				Date:          stringField(lc, "date"),
				Version:       stringField(lc, "version"),
				ChangelogLink: stringField(lc, "changelogLink"),
			}
		}
	}

	for key, value := range raw {
		if recordFields[key] {
			continue
		}
		if err := t.collectFeatures(key, value); err != nil {
			return fmt.Errorf("tool %q: %w", t.ID, err)
		}
	}
	return nil
}

// collectFeatures walks nested groups and stores every status leaf
func (t *Tool) collectFeatures(prefix string, value interface{}) error {
	switch v := value.(type) {
	case map[string]interface{}:
		if isStatusObject(v) {
			fs, _ := StatusFromValue(v)
			t.Features[prefix] = fs
			return nil
		}
		for k, child := range v {
			if err := t.collectFeatures(prefix+"."+k, child); err != nil {
				return err
			}
		}
		return nil
	case string:
		fs, _ := StatusFromValue(v)
		t.Features[prefix] = fs
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value for feature %q: %v", prefix, v)
	}
}

// ToMap renders the record back into its nested document form
func (t *Tool) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"website":     t.Website,
		"license":     t.License,
		"openSource":  t.OpenSource,
		"language":    t.Language,
	}
	if t.Language == nil {
		out["language"] = []string{}
	}
	if t.Repository != "" {
		out["repository"] = t.Repository
	}
	if t.Notes != "" {
		out["notes"] = t.Notes
	}
	if t.GitHubStats != nil {
		out["githubStats"] = t.GitHubStats
	}
	if t.Performance != nil {
		out["performance"] = t.Performance
	}
	if t.Meta != nil {
		out["meta"] = t.Meta
	}
	for _, key := range t.FeatureKeys() {
		insertNested(out, strings.Split(key, "."), t.Features[key])
	}
	return out
}

// MarshalJSON writes the nested document form
func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

// MarshalYAML writes the nested document form
func (t Tool) MarshalYAML() (interface{}, error) {
	return t.ToMap(), nil
}

func insertNested(dst map[string]interface{}, path []string, fs FeatureStatus) {
	if len(path) == 1 {
		dst[path[0]] = fs
		return
	}
	child, ok := dst[path[0]].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
		dst[path[0]] = child
	}
	insertNested(child, path[1:], fs)
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}
