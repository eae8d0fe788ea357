package types

import "fmt"

// FeatureItem points at a status inside a tool record by dotted key
type FeatureItem struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Section is a named, ordered group of feature items shown as one
// collapsible row group
type Section struct {
	ID    string        `yaml:"id" json:"id"`
	Label string        `yaml:"label" json:"label"`
	Items []FeatureItem `yaml:"items" json:"items"`
}

// Keys returns the feature keys of the section in order
func (s Section) Keys() []string {
	keys := make([]string, len(s.Items))
	for i, item := range s.Items {
		keys[i] = item.Key
	}
	return keys
}

// CategoryDefinition describes one comparison category and its sections
type CategoryDefinition struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

// Section looks up a section by id
func (c *CategoryDefinition) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// LabelFor returns the label of a feature key, or the key itself
func (c *CategoryDefinition) LabelFor(key string) string {
	for _, s := range c.Sections {
		for _, item := range s.Items {
			if item.Key == key {
				return item.Label
			}
		}
	}
	return key
}

// CategoriesConfig represents the categories.yaml configuration file
type CategoriesConfig struct {
	Categories []CategoryDefinition `yaml:"categories" json:"categories"`
}

// Category finds a category by id
func (c *CategoriesConfig) Category(id string) (*CategoryDefinition, error) {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("unknown category %q (available: %v)", id, c.IDs())
}

// IDs returns category ids in configuration order
func (c *CategoriesConfig) IDs() []string {
	ids := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		ids[i] = cat.ID
	}
	return ids
}
