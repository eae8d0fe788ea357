package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
)

func tool(id string, features map[string]types.Status) *types.Tool {
	t := &types.Tool{ID: id, Name: id, OpenSource: true}
	for k, s := range features {
		t.SetFeature(k, types.Flat(s))
	}
	return t
}

var testSections = []types.Section{
	{
		ID:    "playback",
		Label: "Playback",
		Items: []types.FeatureItem{
			{Key: "playback.transcoding", Label: "Hardware Transcoding"},
			{Key: "playback.subtitles", Label: "Subtitle Support"},
		},
	},
	{
		ID:    "clients",
		Label: "Client Apps",
		Items: []types.FeatureItem{
			{Key: "clients.android", Label: "Android"},
			{Key: "clients.ios", Label: "iOS"},
		},
	},
}

func fourTools() []*types.Tool {
	return []*types.Tool{
		tool("A", map[string]types.Status{"playback.transcoding": types.StatusYes}),
		tool("B", map[string]types.Status{"playback.transcoding": types.StatusPaid}),
		tool("C", map[string]types.Status{"playback.transcoding": types.StatusPartial}),
		tool("D", map[string]types.Status{"playback.transcoding": types.StatusNo}),
	}
}

func TestFilter_SupportedStatusesPass(t *testing.T) {
	tools := append(fourTools(), tool("E", nil))
	table := NewTable(tools, testSections)

	table.ToggleFilter("playback.transcoding")
	assert.Equal(t, []string{"A", "B"}, table.View().IDs(), "Yes and Paid pass, Partial, No and absent fail")
}

func TestFilter_ToggleTwiceRestores(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	before := table.View().IDs()

	table.ToggleFilter("playback.transcoding")
	table.ToggleFilter("playback.transcoding")

	assert.Empty(t, table.Filters())
	assert.Equal(t, before, table.View().IDs())
}

func TestFilter_Conjunction(t *testing.T) {
	tools := []*types.Tool{
		tool("A", map[string]types.Status{"playback.transcoding": types.StatusYes, "clients.ios": types.StatusYes}),
		tool("B", map[string]types.Status{"playback.transcoding": types.StatusYes, "clients.ios": types.StatusNo}),
	}
	table := NewTable(tools, testSections)
	table.SetFilter("playback.transcoding", true)
	table.SetFilter("clients.ios", true)

	assert.Equal(t, []string{"A"}, table.View().IDs())

	table.ResetFilters()
	assert.Len(t, table.View().Tools, 2)
}

func TestFilter_EmptyResult(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.ToggleFilter("clients.android")

	view := table.View()
	assert.True(t, view.Empty())
	assert.Equal(t, 0, view.MaxStars)
	assert.True(t, math.IsInf(view.MinRAM, 1))
}

func TestSearch_ShortQueryIsInert(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.SetSearch("a")

	assert.False(t, table.IsMatch("Android"))
	for _, s := range testSections {
		assert.False(t, table.IsSectionExpanded(s.ID), s.ID)
	}
	assert.False(t, table.IsSectionExpanded(StatsSectionID))
}

func TestSearch_ItemLabelForcesParentOpen(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.SetSearch("trans")

	assert.True(t, table.IsMatch("Hardware Transcoding"))
	assert.True(t, table.IsSectionExpanded("playback"))
	assert.False(t, table.IsSectionExpanded("clients"))
	assert.False(t, table.IsManuallyExpanded("playback"), "search does not write manual state")
}

func TestSearch_SectionLabelForcesOpen(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.SetSearch("CLIENT")
	assert.True(t, table.IsSectionExpanded("clients"))
}

func TestSearch_StatsKeywords(t *testing.T) {
	table := NewTable(fourTools(), testSections)

	table.SetSearch("star")
	assert.True(t, table.IsSectionExpanded(StatsSectionID))

	table.SetSearch("ram")
	assert.True(t, table.IsSectionExpanded(StatsSectionID))

	table.SetSearch("android")
	assert.False(t, table.IsSectionExpanded(StatsSectionID))
}

func TestSearch_ClearingKeepsManualExpansion(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.ToggleSection("clients")
	table.SetSearch("subtitle")

	assert.True(t, table.IsSectionExpanded("playback"))
	assert.True(t, table.IsSectionExpanded("clients"))

	table.ClearSearch()
	assert.False(t, table.IsSectionExpanded("playback"))
	assert.True(t, table.IsSectionExpanded("clients"))
}

func TestSearch_DoesNotFilterTools(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.SetSearch("zzz-nothing")
	assert.Len(t, table.View().Tools, 4)
}

func TestPin_MovesToFront(t *testing.T) {
	table := NewTable(fourTools(), testSections)

	table.TogglePin("C")
	assert.Equal(t, []string{"C", "A", "B", "D"}, table.View().IDs())

	// pinned tools keep their input order among themselves
	table.TogglePin("A")
	assert.Equal(t, []string{"A", "C", "B", "D"}, table.View().IDs())

	table.TogglePin("A")
	table.TogglePin("C")
	assert.Equal(t, []string{"A", "B", "C", "D"}, table.View().IDs())
	assert.Empty(t, table.Pinned())
}

func TestPin_FilteredOutPinIsHidden(t *testing.T) {
	table := NewTable(fourTools(), testSections)
	table.SetPinned("D", true)
	table.ToggleFilter("playback.transcoding")

	assert.Equal(t, []string{"A", "B"}, table.View().IDs())
	assert.True(t, table.IsPinned("D"))
}

func TestView_MaximaOverFilteredSet(t *testing.T) {
	tools := fourTools()
	tools[0].GitHubStats = &types.GitHubStats{Stars: 500, Forks: 20}
	tools[1].GitHubStats = &types.GitHubStats{Stars: 300, Forks: 90}
	tools[3].GitHubStats = &types.GitHubStats{Stars: 9000, Forks: 900}

	table := NewTable(tools, testSections)
	view := table.View()
	assert.Equal(t, 9000, view.MaxStars)
	assert.Equal(t, 900, view.MaxForks)

	table.ToggleFilter("playback.transcoding")
	view = table.View()
	assert.Equal(t, 500, view.MaxStars)
	assert.Equal(t, 90, view.MaxForks)
}

func TestView_MinimumSizes(t *testing.T) {
	tools := fourTools()
	tools[0].Performance = &types.Performance{RAMUsage: "300 MB", DockerImageSize: "1 GB"}
	tools[1].Performance = &types.Performance{RAMUsage: "120 MB (idle)", DockerImageSize: "unknown"}
	tools[2].Performance = &types.Performance{RAMUsage: "?", DockerImageSize: "800 MB"}

	view := NewTable(tools, testSections).View()
	assert.Equal(t, float64(120*1024*1024), view.MinRAM)
	assert.Equal(t, float64(800*1024*1024), view.MinImageSize)
}

func TestView_SectionScores(t *testing.T) {
	tools := []*types.Tool{
		tool("A", map[string]types.Status{"playback.transcoding": types.StatusYes, "playback.subtitles": types.StatusPaid}),
		tool("B", map[string]types.Status{"playback.transcoding": types.StatusPartial}),
	}

	view := NewTable(tools, testSections).View()

	a, ok := view.Score("playback", "A")
	require.True(t, ok)
	assert.Equal(t, 1.5, a.Score)
	assert.Equal(t, 2, a.Total)

	b, ok := view.Score("playback", "B")
	require.True(t, ok)
	assert.Equal(t, 0.5, b.Score)
	assert.Equal(t, 1, b.Total, "absent keys are not counted")

	c, ok := view.Score("clients", "A")
	require.True(t, ok)
	assert.Equal(t, 0, c.Total)

	_, ok = view.Score("nope", "A")
	assert.False(t, ok)
}

func TestView_PaidFullCredit(t *testing.T) {
	tools := []*types.Tool{
		tool("A", map[string]types.Status{"playback.transcoding": types.StatusPaid, "playback.subtitles": types.StatusPaid}),
	}
	view := NewTable(tools, testSections, WithPaidCredit(scoring.PaidFullCredit)).View()
	s, _ := view.Score("playback", "A")
	assert.Equal(t, 2.0, s.Score)
}

func TestSectionFeatures_AbsentKeysAreNil(t *testing.T) {
	a := tool("A", map[string]types.Status{"playback.transcoding": types.StatusYes})
	features := SectionFeatures(a, testSections[0])

	require.Len(t, features, 2)
	require.NotNil(t, features["playback.transcoding"])
	assert.Equal(t, types.StatusYes, features["playback.transcoding"].Unwrap())
	assert.Nil(t, features["playback.subtitles"])
}

func TestWhere(t *testing.T) {
	tools := fourTools()
	tools[0].GitHubStats = &types.GitHubStats{Stars: 5000}
	tools[0].Language = []string{"go"}
	tools[1].GitHubStats = &types.GitHubStats{Stars: 50}
	tools[1].Performance = &types.Performance{RAMUsage: "100 MB"}
	tools[2].OpenSource = false

	table := NewTable(tools, testSections)

	require.NoError(t, table.SetWhere("stars > 1000"))
	assert.Equal(t, []string{"A"}, table.View().IDs())

	require.NoError(t, table.SetWhere("ramBytes < 200000000"))
	assert.Equal(t, []string{"B"}, table.View().IDs(), "unparseable sizes never compare as small")

	require.NoError(t, table.SetWhere("!openSource"))
	assert.Equal(t, []string{"C"}, table.View().IDs())

	require.NoError(t, table.SetWhere("'Go' IN languages"))
	assert.Equal(t, []string{"A"}, table.View().IDs())

	require.NoError(t, table.SetWhere("stars + 1"))
	assert.True(t, table.View().Empty(), "non-boolean results exclude every tool")

	require.NoError(t, table.SetWhere(""))
	assert.Len(t, table.View().Tools, 4)
	assert.Equal(t, "", table.Where())

	assert.Error(t, table.SetWhere("stars >"))
}
