package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/selfhostedhub/compare/internal/metrics"
	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
)

// Color modes accepted by --color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// UseColor resolves a color mode against the writer. auto colours only
// terminals and honours NO_COLOR.
func UseColor(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Styles holds every style used to draw a grid
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Pinned   lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Match    lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Cursor   lipgloss.Style
	Status   map[types.Status]lipgloss.Style
	Score    map[scoring.Level]lipgloss.Style
	renderer *lipgloss.Renderer
	styled   bool
}

// NewStyles builds styles bound to a renderer. Unstyled output uses
// plain styles so no escape sequences are written.
func NewStyles(w io.Writer, styled bool) Styles {
	r := lipgloss.NewRenderer(w)
	if styled {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	s := Styles{renderer: r, styled: styled}
	plain := r.NewStyle()
	if !styled {
		s.Title, s.Header, s.Pinned, s.Section, s.Label, s.Match, s.Muted, s.Border, s.Cursor = plain, plain, plain, plain, plain, plain, plain, plain, plain
		s.Status = map[types.Status]lipgloss.Style{}
		s.Score = map[scoring.Level]lipgloss.Style{}
		return s
	}

	s.Title = r.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	s.Header = r.NewStyle().Bold(true)
	s.Pinned = r.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	s.Section = r.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	s.Label = r.NewStyle().Foreground(lipgloss.Color("245"))
	s.Match = r.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	s.Muted = r.NewStyle().Foreground(lipgloss.Color("240"))
	s.Border = r.NewStyle().Foreground(lipgloss.Color("238"))
	s.Cursor = r.NewStyle().Reverse(true)
	s.Status = map[types.Status]lipgloss.Style{
		types.StatusYes:        r.NewStyle().Foreground(lipgloss.Color("42")),
		types.StatusNo:         r.NewStyle().Foreground(lipgloss.Color("196")),
		types.StatusPaid:       r.NewStyle().Foreground(lipgloss.Color("178")),
		types.StatusPartial:    r.NewStyle().Foreground(lipgloss.Color("208")),
		types.StatusComingSoon: r.NewStyle().Foreground(lipgloss.Color("39")),
		types.StatusUnknown:    r.NewStyle().Foreground(lipgloss.Color("240")),
	}
	s.Score = map[scoring.Level]lipgloss.Style{
		scoring.LevelComplete: r.NewStyle().Foreground(lipgloss.Color("42")),
		scoring.LevelMajority: r.NewStyle().Foreground(lipgloss.Color("220")),
		scoring.LevelMinority: r.NewStyle().Foreground(lipgloss.Color("196")),
	}
	return s
}

// Cell renders one cell with markers and colour
func (s Styles) Cell(c Cell) string {
	text := c.Text
	if c.Hot {
		text += " " + metrics.HotMarker
	}
	switch {
	case c.Kind == CellAbsent:
		return s.Muted.Render(text)
	case c.Color != "" && s.styled:
		return s.renderer.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(text)
	case c.Kind == CellStatus:
		if st, ok := s.Status[c.Status]; ok {
			return st.Render(text)
		}
	case c.Kind == CellScore:
		if st, ok := s.Score[c.Level]; ok {
			return st.Render(text)
		}
	}
	return text
}

// RowLabel renders the first column of a row
func (s Styles) RowLabel(r Row) string {
	switch r.Kind {
	case RowSection:
		marker := "▸"
		if r.Expanded {
			marker = "▾"
		}
		label := r.Label
		if r.Match {
			label = s.Match.Render(label)
		}
		return s.Section.Render(marker+" ") + s.Section.Render(label)
	default:
		prefix := "  "
		if r.Filtered {
			prefix = s.Pinned.Render(FilterMarker) + " "
		}
		if r.Match {
			return prefix + s.Match.Render(r.Label)
		}
		return prefix + s.Label.Render(r.Label)
	}
}

// ColumnHeader renders a tool name with its pin marker
func (s Styles) ColumnHeader(c Column) string {
	if c.Pinned {
		return s.Pinned.Render(PinMarker + " " + c.Name)
	}
	return s.Header.Render(c.Name)
}

// WriteText writes the grid as a bordered text table
func WriteText(w io.Writer, g Grid, styled bool) error {
	s := NewStyles(w, styled)

	var b strings.Builder
	b.WriteString(s.Title.Render(g.Title))
	b.WriteString("\n")

	if g.Empty() {
		b.WriteString(s.Muted.Render("No tools match the active filters."))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(s.Table(g, -1, -1))
	b.WriteString("\n")
	_, err := fmt.Fprint(w, b.String())
	return err
}

// Table draws the grid. cursorRow and cursorCol index Rows and Columns;
// the matching label and cell are drawn with the cursor style. Pass -1 to
// draw without a cursor.
func (s Styles) Table(g Grid, cursorRow, cursorCol int) string {
	headers := []string{""}
	for _, c := range g.Columns {
		headers = append(headers, s.ColumnHeader(c))
	}

	rows := make([][]string, 0, len(g.Rows))
	for i, r := range g.Rows {
		label := s.RowLabel(r)
		if i == cursorRow {
			label = s.Cursor.Render(label)
		}
		line := []string{label}
		for j, c := range r.Cells {
			cell := s.Cell(c)
			if i == cursorRow && j == cursorCol {
				cell = s.Cursor.Render(cell)
			}
			line = append(line, cell)
		}
		rows = append(rows, line)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return s.renderer.NewStyle().Padding(0, 1)
		})
	return t.String()
}
