package render

import (
	"strings"

	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/metrics"
	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
)

// Absent is shown for feature keys a tool does not define
const Absent = "–"

// PinMarker prefixes pinned tool names
const PinMarker = "📌"

// FilterMarker prefixes feature rows that are active filters
const FilterMarker = "●"

// StaleMarker flags a status verified against an older release
const StaleMarker = "⚠"

// RowKind tells presentation code how to style a row
type RowKind int

const (
	RowSection RowKind = iota
	RowFeature
	RowStat
)

// CellKind tells presentation code how to style a cell
type CellKind int

const (
	CellText CellKind = iota
	CellStatus
	CellScore
	CellAbsent
)

// Cell is one rendered value
type Cell struct {
	Kind   CellKind
	Text   string
	Status types.Status  // CellStatus only
	Level  scoring.Level // CellScore only
	Hot    bool
	Stale  bool
	Color  string // explicit ANSI colour, e.g. for licenses
}

// Row is one line of the comparison grid
type Row struct {
	Kind      RowKind
	SectionID string
	Key       string
	Label     string
	Expanded  bool // RowSection only
	Match     bool // label contains the active search
	Filtered  bool // RowFeature only, key is a required filter
	Cells     []Cell
}

// Column is one tool in display order
type Column struct {
	ID     string
	Name   string
	Pinned bool
}

// Grid is the presentation-neutral table shared by the text renderer and
// the terminal browser
type Grid struct {
	Title   string
	Columns []Column
	Rows    []Row
}

// Empty reports whether no tool is visible
func (g Grid) Empty() bool { return len(g.Columns) == 0 }

// StatusSymbol returns the compact text of a status
func StatusSymbol(s types.Status) string {
	switch s {
	case types.StatusYes:
		return "✓"
	case types.StatusNo:
		return "✗"
	case types.StatusPaid:
		return "$ Paid"
	case types.StatusPartial:
		return "~ Partial"
	case types.StatusComingSoon:
		return "… Soon"
	default:
		return "?"
	}
}

// Build lays out the statistics group followed by every configured section.
// Collapsed groups contribute only their header row.
func Build(def *types.CategoryDefinition, table *engine.Table, view *engine.View) Grid {
	g := Grid{Title: def.Title}
	for _, tool := range view.Tools {
		g.Columns = append(g.Columns, Column{ID: tool.ID, Name: tool.Name, Pinned: table.IsPinned(tool.ID)})
	}

	g.Rows = append(g.Rows, statsRows(table, view)...)
	for _, section := range table.Sections() {
		g.Rows = append(g.Rows, sectionRows(section, table, view)...)
	}
	return g
}

func statsRows(table *engine.Table, view *engine.View) []Row {
	now := table.Now()
	expanded := table.IsSectionExpanded(engine.StatsSectionID)

	header := Row{
		Kind:      RowSection,
		SectionID: engine.StatsSectionID,
		Label:     engine.StatsSectionLabel,
		Expanded:  expanded,
		Match:     table.IsMatch(engine.StatsSectionLabel),
	}
	for _, tool := range view.Tools {
		header.Cells = append(header.Cells, Cell{Kind: CellText, Text: metrics.Popularity(tool, now)})
	}
	rows := []Row{header}
	if !expanded {
		return rows
	}

	stat := func(key, label string, cell func(*types.Tool) Cell) {
		row := Row{Kind: RowStat, SectionID: engine.StatsSectionID, Key: key, Label: label, Match: table.IsMatch(label)}
		for _, tool := range view.Tools {
			row.Cells = append(row.Cells, cell(tool))
		}
		rows = append(rows, row)
	}

	stat("languages", "Languages", func(t *types.Tool) Cell {
		langs := metrics.NormalizeLanguages(t.Language)
		if len(langs) == 0 {
			return absentCell()
		}
		names := make([]string, len(langs))
		for i, l := range langs {
			names[i] = l.Name
		}
		return Cell{Kind: CellText, Text: strings.Join(names, ", ")}
	})
	stat("dockerImageSize", "Image Size", func(t *types.Tool) Cell {
		return sizeCell(t.DockerImageSize(), view.MinImageSize)
	})
	stat("ramUsage", "Idle RAM", func(t *types.Tool) Cell {
		return sizeCell(t.RAMUsage(), view.MinRAM)
	})
	stat("stars", "Stars", func(t *types.Tool) Cell {
		if t.GitHubStats == nil {
			return absentCell()
		}
		return Cell{Kind: CellText, Text: metrics.FormatCount(t.Stars()), Hot: metrics.StarsHot(t.Stars(), view.MaxStars)}
	})
	stat("forks", "Forks", func(t *types.Tool) Cell {
		if t.GitHubStats == nil {
			return absentCell()
		}
		return Cell{Kind: CellText, Text: metrics.FormatCount(t.Forks()), Hot: metrics.ForksHot(t.Forks(), view.MaxForks)}
	})
	stat("lastCommit", "Last Commit", func(t *types.Tool) Cell {
		if t.GitHubStats == nil {
			return absentCell()
		}
		return Cell{Kind: CellText, Text: metrics.RelativeDate(t.LastCommit(), now), Hot: metrics.RecentCommit(t.LastCommit(), now)}
	})
	stat("license", "License", func(t *types.Tool) Cell {
		if t.License == "" {
			return absentCell()
		}
		return Cell{Kind: CellText, Text: t.License, Color: metrics.ClassifyLicense(t.License).Color()}
	})
	stat("openSource", "Open Source", func(t *types.Tool) Cell {
		s := types.StatusNo
		if t.OpenSource {
			s = types.StatusYes
		}
		return Cell{Kind: CellStatus, Status: s, Text: StatusSymbol(s)}
	})
	return rows
}

func sectionRows(section types.Section, table *engine.Table, view *engine.View) []Row {
	expanded := table.IsSectionExpanded(section.ID)
	header := Row{
		Kind:      RowSection,
		SectionID: section.ID,
		Label:     section.Label,
		Expanded:  expanded,
		Match:     table.IsMatch(section.Label),
	}
	for _, tool := range view.Tools {
		score, _ := view.Score(section.ID, tool.ID)
		header.Cells = append(header.Cells, Cell{Kind: CellScore, Text: score.String(), Level: score.Level()})
	}
	rows := []Row{header}
	if !expanded {
		return rows
	}

	for _, item := range section.Items {
		row := Row{
			Kind:      RowFeature,
			SectionID: section.ID,
			Key:       item.Key,
			Label:     item.Label,
			Match:     table.IsMatch(item.Label),
			Filtered:  table.HasFilter(item.Key),
		}
		for _, tool := range view.Tools {
			row.Cells = append(row.Cells, FeatureCell(tool, item.Key))
		}
		rows = append(rows, row)
	}
	return rows
}

// FeatureCell renders one status, its note and the verification marker
func FeatureCell(tool *types.Tool, key string) Cell {
	fs, ok := tool.Feature(key)
	if !ok {
		return absentCell()
	}
	status := fs.Unwrap()
	text := StatusSymbol(status)
	if note := fs.Note(); note != "" {
		text += " " + note
	}
	stale := metrics.VerificationLag(fs, metrics.CurrentVersion(tool))
	if stale {
		text += " " + StaleMarker
	}
	return Cell{Kind: CellStatus, Status: status, Text: text, Stale: stale}
}

func sizeCell(raw string, min float64) Cell {
	if strings.TrimSpace(raw) == "" {
		return absentCell()
	}
	return Cell{Kind: CellText, Text: raw, Hot: metrics.IsLowest(metrics.ParseSize(raw), min)}
}

func absentCell() Cell {
	return Cell{Kind: CellAbsent, Text: Absent}
}
