package engine

import (
	"math"
	"sort"

	"github.com/selfhostedhub/compare/internal/metrics"
	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
)

// View is the derived state handed to presentation code
type View struct {
	// Tools passing the filters, pinned tools first
	Tools []*types.Tool

	// Maxima over the filtered set, used by the hot markers
	MaxStars int
	MaxForks int

	// Minima over the filtered set; +Inf when nothing parses
	MinRAM       float64
	MinImageSize float64

	scores map[string]map[string]scoring.Score
}

// View recomputes the derived state from the current interaction state
func (t *Table) View() *View {
	filtered := make([]*types.Tool, 0, len(t.tools))
	for _, tool := range t.tools {
		if t.passes(tool) {
			filtered = append(filtered, tool)
		}
	}

	v := &View{
		Tools:        t.pinFirst(filtered),
		MinRAM:       math.Inf(1),
		MinImageSize: math.Inf(1),
		scores:       make(map[string]map[string]scoring.Score, len(t.sections)),
	}

	for _, tool := range v.Tools {
		if tool.GitHubStats != nil {
			if tool.GitHubStats.Stars > v.MaxStars {
				v.MaxStars = tool.GitHubStats.Stars
			}
			if tool.GitHubStats.Forks > v.MaxForks {
				v.MaxForks = tool.GitHubStats.Forks
			}
		}
		if ram := metrics.ParseSize(tool.RAMUsage()); ram < v.MinRAM {
			v.MinRAM = ram
		}
		if img := metrics.ParseSize(tool.DockerImageSize()); img < v.MinImageSize {
			v.MinImageSize = img
		}
	}

	for _, section := range t.sections {
		perTool := make(map[string]scoring.Score, len(v.Tools))
		for _, tool := range v.Tools {
			perTool[tool.ID] = scoring.Calculate(SectionFeatures(tool, section), t.policy)
		}
		v.scores[section.ID] = perTool
	}

	return v
}

// pinFirst is a stable partition: pinned tools move to the front and both
// groups keep their relative order
func (t *Table) pinFirst(tools []*types.Tool) []*types.Tool {
	out := make([]*types.Tool, len(tools))
	copy(out, tools)
	sort.SliceStable(out, func(i, j int) bool {
		return t.pinned.has(out[i].ID) && !t.pinned.has(out[j].ID)
	})
	return out
}

// Score returns the score of a section for a tool in this view
func (v *View) Score(sectionID, toolID string) (scoring.Score, bool) {
	perTool, ok := v.scores[sectionID]
	if !ok {
		return scoring.Score{}, false
	}
	s, ok := perTool[toolID]
	return s, ok
}

// IDs returns the ids of the visible tools in display order
func (v *View) IDs() []string {
	ids := make([]string, len(v.Tools))
	for i, tool := range v.Tools {
		ids[i] = tool.ID
	}
	return ids
}

// Empty reports whether no tool passed the filters
func (v *View) Empty() bool { return len(v.Tools) == 0 }
