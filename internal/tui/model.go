package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/selfhostedhub/compare/internal/engine"
	"github.com/selfhostedhub/compare/internal/render"
	"github.com/selfhostedhub/compare/internal/types"
)

// lines used by everything except the table body
const chromeHeight = 9

// Model is the interactive comparison browser for one category
type Model struct {
	def    *types.CategoryDefinition
	table  *engine.Table
	styles render.Styles
	logger *slog.Logger

	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool

	grid   render.Grid
	row    int
	col    int
	offset int

	width  int
	height int
	status string
}

// Option configures a Model
type Option func(*Model)

// WithStyles replaces the default terminal styles
func WithStyles(s render.Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New creates a browser over an already configured table
func New(def *types.CategoryDefinition, table *engine.Table, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "search features..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.SetValue(table.Search())

	m := Model{
		def:    def,
		table:  table,
		styles: render.NewStyles(os.Stdout, true),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		keys:   newKeyMap(),
		help:   help.New(),
		search: ti,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Run starts the browser on the terminal and blocks until it exits
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width - 4
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.table.ClearSearch()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.table.Search() {
		m.table.SetSearch(m.search.Value())
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.row--
	case key.Matches(msg, m.keys.Down):
		m.row++
	case key.Matches(msg, m.keys.Left):
		m.col--
	case key.Matches(msg, m.keys.Right):
		m.col++
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.search.SetValue("")
		m.table.ClearSearch()
		m.status = ""
	case key.Matches(msg, m.keys.Toggle):
		m.activate()
	case key.Matches(msg, m.keys.Filter):
		if r, ok := m.currentRow(); ok && r.Kind == render.RowFeature {
			m.toggleFilter(r)
		}
	case key.Matches(msg, m.keys.Pin):
		m.togglePin()
	case key.Matches(msg, m.keys.Reset):
		m.table.ResetFilters()
		m.status = "Filters cleared"
	}
	m.refresh()
	return m, nil
}

// activate toggles the section under the cursor, or the filter of a feature row
func (m *Model) activate() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	switch r.Kind {
	case render.RowSection:
		m.table.ToggleSection(r.SectionID)
	case render.RowFeature:
		m.toggleFilter(r)
	}
}

func (m *Model) toggleFilter(r render.Row) {
	m.table.ToggleFilter(r.Key)
	state := "off"
	if m.table.HasFilter(r.Key) {
		state = "on"
	}
	m.status = fmt.Sprintf("Filter %s: %s", state, r.Label)
	m.logger.Debug("filter from browser", "key", r.Key, "state", state)
}

func (m *Model) togglePin() {
	if m.col < 0 || m.col >= len(m.grid.Columns) {
		return
	}
	c := m.grid.Columns[m.col]
	m.table.TogglePin(c.ID)
	if m.table.IsPinned(c.ID) {
		m.status = "Pinned " + c.Name
	} else {
		m.status = "Unpinned " + c.Name
	}
}

func (m Model) currentRow() (render.Row, bool) {
	if m.row < 0 || m.row >= len(m.grid.Rows) {
		return render.Row{}, false
	}
	return m.grid.Rows[m.row], true
}

// refresh rebuilds the grid from table state and keeps the cursor on the
// same row key and tool when they are still visible
func (m *Model) refresh() {
	var rowKey, colID string
	if r, ok := m.currentRow(); ok {
		rowKey = r.SectionID + "/" + r.Key
	}
	if m.col >= 0 && m.col < len(m.grid.Columns) {
		colID = m.grid.Columns[m.col].ID
	}

	prev := m.grid
	m.grid = render.Build(m.def, m.table, m.table.View())

	if len(prev.Rows) > 0 && m.row >= 0 && m.row < len(prev.Rows) {
		for i, r := range m.grid.Rows {
			if r.SectionID+"/"+r.Key == rowKey {
				m.row = i
				break
			}
		}
	}
	for i, c := range m.grid.Columns {
		if c.ID == colID {
			m.col = i
			break
		}
	}
	m.row = clamp(m.row, 0, len(m.grid.Rows)-1)
	m.col = clamp(m.col, 0, len(m.grid.Columns)-1)
	m.scroll()
}

// scroll moves the window so the cursor row stays visible
func (m *Model) scroll() {
	body := m.bodyHeight()
	if body <= 0 {
		m.offset = 0
		return
	}
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+body {
		m.offset = m.row - body + 1
	}
	m.offset = clamp(m.offset, 0, max(len(m.grid.Rows)-body, 0))
}

func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-chromeHeight, 1)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.def.Title))
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render(m.summary()))
	b.WriteString("\n")

	if m.searching || m.table.Search() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if m.grid.Empty() {
		b.WriteString(m.styles.Muted.Render("No tools match the active filters. Press r to reset."))
		b.WriteString("\n")
	} else {
		g := m.grid
		row := m.row
		if body := m.bodyHeight(); body > 0 && len(g.Rows) > body {
			end := min(m.offset+body, len(g.Rows))
			g.Rows = g.Rows[m.offset:end]
			row -= m.offset
		}
		b.WriteString(m.styles.Table(g, row, m.col))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) summary() string {
	parts := []string{fmt.Sprintf("%d/%d tools", len(m.grid.Columns), len(m.table.Tools()))}
	if n := len(m.table.Filters()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", n))
	}
	if n := len(m.table.Pinned()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d pinned", n))
	}
	if w := m.table.Where(); w != "" {
		parts = append(parts, "where "+w)
	}
	parts = append(parts, "paid credit "+m.table.PaidCredit().String())
	return strings.Join(parts, " · ")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
