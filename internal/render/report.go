package render

import (
	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/metrics"
	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
)

// Report is the structured form of a rendered table, used for JSON and YAML
type Report struct {
	Category   string          `json:"category" yaml:"category"`
	Title      string          `json:"title" yaml:"title"`
	Search     string          `json:"search,omitempty" yaml:"search,omitempty"`
	Filters    []string        `json:"filters,omitempty" yaml:"filters,omitempty"`
	Where      string          `json:"where,omitempty" yaml:"where,omitempty"`
	Pinned     []string        `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	PaidCredit string          `json:"paidCredit" yaml:"paidCredit"`
	Sections   []SectionReport `json:"sections" yaml:"sections"`
	Tools      []ToolReport    `json:"tools" yaml:"tools"`
}

// SectionReport describes one row group
type SectionReport struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Expanded bool   `json:"expanded" yaml:"expanded"`
}

// ToolReport is one visible tool with its derived values
type ToolReport struct {
	ID         string                         `json:"id" yaml:"id"`
	Name       string                         `json:"name" yaml:"name"`
	Pinned     bool                           `json:"pinned" yaml:"pinned"`
	Popularity string                         `json:"popularity" yaml:"popularity"`
	Stats      StatsReport                    `json:"stats" yaml:"stats"`
	Scores     map[string]scoring.Score       `json:"scores" yaml:"scores"`
	Features   map[string]types.FeatureStatus `json:"features" yaml:"features"`
}

// StatsReport carries the statistics group values and markers
type StatsReport struct {
	Stars           int      `json:"stars" yaml:"stars"`
	StarsHot        bool     `json:"starsHot" yaml:"starsHot"`
	Forks           int      `json:"forks" yaml:"forks"`
	ForksHot        bool     `json:"forksHot" yaml:"forksHot"`
	LastCommit      string   `json:"lastCommit" yaml:"lastCommit"`
	RecentCommit    bool     `json:"recentCommit" yaml:"recentCommit"`
	License         string   `json:"license" yaml:"license"`
	LicenseCategory string   `json:"licenseCategory" yaml:"licenseCategory"`
	OpenSource      bool     `json:"openSource" yaml:"openSource"`
	Languages       []string `json:"languages" yaml:"languages"`
	RAMUsage        string   `json:"ramUsage,omitempty" yaml:"ramUsage,omitempty"`
	LowestRAM       bool     `json:"lowestRam" yaml:"lowestRam"`
	ImageSize       string   `json:"imageSize,omitempty" yaml:"imageSize,omitempty"`
	LowestImageSize bool     `json:"lowestImageSize" yaml:"lowestImageSize"`
}

// BuildReport collects the structured output of a table state. Only keys
// listed in a section appear under features; absent keys are omitted.
func BuildReport(def *types.CategoryDefinition, table *engine.Table, view *engine.View) Report {
	now := table.Now()
	r := Report{
		Category:   def.ID,
		Title:      def.Title,
		Search:     table.Search(),
		Filters:    table.Filters(),
		Where:      table.Where(),
		Pinned:     table.Pinned(),
		PaidCredit: table.PaidCredit().String(),
		Sections: []SectionReport{{
			ID:       engine.StatsSectionID,
			Label:    engine.StatsSectionLabel,
			Expanded: table.IsSectionExpanded(engine.StatsSectionID),
		}},
		Tools: make([]ToolReport, 0, len(view.Tools)),
	}
	for _, s := range table.Sections() {
		r.Sections = append(r.Sections, SectionReport{ID: s.ID, Label: s.Label, Expanded: table.IsSectionExpanded(s.ID)})
	}

	for _, tool := range view.Tools {
		tr := ToolReport{
			ID:         tool.ID,
			Name:       tool.Name,
			Pinned:     table.IsPinned(tool.ID),
			Popularity: metrics.Popularity(tool, now),
			Scores:     make(map[string]scoring.Score, len(table.Sections())),
			Features:   make(map[string]types.FeatureStatus),
			Stats: StatsReport{
				Stars:           tool.Stars(),
				StarsHot:        metrics.StarsHot(tool.Stars(), view.MaxStars),
				Forks:           tool.Forks(),
				ForksHot:        metrics.ForksHot(tool.Forks(), view.MaxForks),
				LastCommit:      metrics.RelativeDate(tool.LastCommit(), now),
				RecentCommit:    metrics.RecentCommit(tool.LastCommit(), now),
				License:         tool.License,
				LicenseCategory: string(metrics.ClassifyLicense(tool.License)),
				OpenSource:      tool.OpenSource,
				Languages:       []string{},
				RAMUsage:        tool.RAMUsage(),
				LowestRAM:       metrics.IsLowest(metrics.ParseSize(tool.RAMUsage()), view.MinRAM),
				ImageSize:       tool.DockerImageSize(),
				LowestImageSize: metrics.IsLowest(metrics.ParseSize(tool.DockerImageSize()), view.MinImageSize),
			},
		}
		for _, l := range metrics.NormalizeLanguages(tool.Language) {
			tr.Stats.Languages = append(tr.Stats.Languages, l.Name)
		}
		for _, s := range table.Sections() {
			if score, ok := view.Score(s.ID, tool.ID); ok {
				tr.Scores[s.ID] = score
			}
			for _, key := range s.Keys() {
				if fs, ok := tool.Feature(key); ok {
					tr.Features[key] = fs
				}
			}
		}
		r.Tools = append(r.Tools, tr)
	}
	return r
}
