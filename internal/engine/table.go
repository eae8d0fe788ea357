package engine

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Knetic/govaluate"

	"github.com/selfhostedhub/compare/internal/scoring"
	"github.com/selfhostedhub/compare/internal/types"
)

// StatsSectionID is the reserved id of the project statistics row group
const StatsSectionID = "project-stats"

// StatsSectionLabel is the display label of the statistics row group
const StatsSectionLabel = "Project Stats"

// MinSearchLength is the shortest query that takes effect
const MinSearchLength = 2

// StatsKeywords are the searchable labels of the statistics row group
var StatsKeywords = []string{
	"project stats",
	"github popularity",
	"stars",
	"forks",
	"last commit",
	"license",
	"open source",
	"ram",
	"size",
	"performance",
}

// Table owns the interaction state of one comparison table.
// Search, filters, expansion and pins are independent; every derived value
// is recomputed from them on read.
type Table struct {
	tools    []*types.Tool
	sections []types.Section

	search   string
	filters  set
	expanded set
	pinned   set

	whereText string
	where     *govaluate.EvaluableExpression

	policy scoring.PaidCredit
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Table
type Option func(*Table)

// WithPaidCredit sets the scoring policy for Paid features
func WithPaidCredit(p scoring.PaidCredit) Option {
	return func(t *Table) { t.policy = p }
}

// WithClock overrides the time source used for derived date values
func WithClock(now func() time.Time) Option {
	return func(t *Table) { t.now = now }
}

// WithLogger attaches a logger for state transitions
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) { t.logger = l }
}

// NewTable creates fresh interaction state over tools and sections.
// The input order is the display order before pinning.
func NewTable(tools []*types.Tool, sections []types.Section, opts ...Option) *Table {
	t := &Table{
		tools:    tools,
		sections: sections,
		filters:  set{},
		expanded: set{},
		pinned:   set{},
		policy:   scoring.PaidHalfCredit,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tools returns the unfiltered input tools
func (t *Table) Tools() []*types.Tool { return t.tools }

// Sections returns the configured sections
func (t *Table) Sections() []types.Section { return t.sections }

// PaidCredit returns the scoring policy
func (t *Table) PaidCredit() scoring.PaidCredit { return t.policy }

// Now returns the table clock
func (t *Table) Now() time.Time { return t.now() }

// SetSearch replaces the active query
func (t *Table) SetSearch(q string) {
	t.search = q
	t.logger.Debug("search changed", "query", q, "active", t.searchActive())
}

// ClearSearch drops the query; manual expansion state is untouched
func (t *Table) ClearSearch() { t.SetSearch("") }

// Search returns the raw query
func (t *Table) Search() string { return t.search }

func (t *Table) searchActive() bool {
	return len([]rune(t.search)) >= MinSearchLength
}

// IsMatch reports whether text contains the active query, ignoring case.
// Always false below MinSearchLength.
func (t *Table) IsMatch(text string) bool {
	if !t.searchActive() {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(t.search))
}

// isSearchForced reports whether the active query opens a section
func (t *Table) isSearchForced(id string) bool {
	if !t.searchActive() {
		return false
	}
	if id == StatsSectionID {
		for _, kw := range StatsKeywords {
			if t.IsMatch(kw) {
				return true
			}
		}
		return false
	}
	for _, s := range t.sections {
		if s.ID != id {
			continue
		}
		if t.IsMatch(s.Label) {
			return true
		}
		for _, item := range s.Items {
			if t.IsMatch(item.Label) {
				return true
			}
		}
	}
	return false
}

// ToggleSection flips the manual open state of a section
func (t *Table) ToggleSection(id string) {
	t.expanded.toggle(id)
	t.logger.Debug("section toggled", "section", id, "open", t.expanded.has(id))
}

// SetSectionOpen sets the manual open state of a section
func (t *Table) SetSectionOpen(id string, open bool) {
	t.expanded.set(id, open)
}

// IsSectionExpanded is the manual state ORed with the search-forced state
func (t *Table) IsSectionExpanded(id string) bool {
	return t.expanded.has(id) || t.isSearchForced(id)
}

// IsManuallyExpanded reports only the manual state
func (t *Table) IsManuallyExpanded(id string) bool {
	return t.expanded.has(id)
}

// ToggleFilter adds a required feature key, or removes it when already active
func (t *Table) ToggleFilter(key string) {
	t.filters.toggle(key)
	t.logger.Debug("filter toggled", "key", key, "active", t.filters.has(key))
}

// SetFilter sets whether a feature key is required
func (t *Table) SetFilter(key string, on bool) {
	t.filters.set(key, on)
}

// ResetFilters clears all required feature keys
func (t *Table) ResetFilters() {
	t.filters = set{}
}

// HasFilter reports whether a key is required
func (t *Table) HasFilter(key string) bool { return t.filters.has(key) }

// Filters returns the active filter keys, sorted
func (t *Table) Filters() []string { return t.filters.sorted() }

// TogglePin flips whether a tool is pinned to the front
func (t *Table) TogglePin(id string) {
	t.pinned.toggle(id)
	t.logger.Debug("pin toggled", "tool", id, "pinned", t.pinned.has(id))
}

// SetPinned sets whether a tool is pinned
func (t *Table) SetPinned(id string, on bool) {
	t.pinned.set(id, on)
}

// IsPinned reports pin membership
func (t *Table) IsPinned(id string) bool { return t.pinned.has(id) }

// Pinned returns pinned tool ids, sorted
func (t *Table) Pinned() []string { return t.pinned.sorted() }

// SetWhere installs a boolean expression that every visible tool must
// satisfy, in addition to the feature filters. An empty string clears it.
func (t *Table) SetWhere(expr string) error {
	if strings.TrimSpace(expr) == "" {
		t.where, t.whereText = nil, ""
		return nil
	}
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return err
	}
	t.where, t.whereText = compiled, expr
	return nil
}

// Where returns the active expression text
func (t *Table) Where() string { return t.whereText }

// passes applies feature filters (AND) and the where expression
func (t *Table) passes(tool *types.Tool) bool {
	for key := range t.filters {
		fs, ok := tool.Feature(key)
		if !ok || !fs.IsSupported() {
			return false
		}
	}
	if t.where != nil && !evaluateWhere(t.where, tool) {
		return false
	}
	return true
}

// SectionFeatures resolves every item of a section on a tool.
// Unresolvable keys map to nil.
func SectionFeatures(tool *types.Tool, section types.Section) map[string]*types.FeatureStatus {
	out := make(map[string]*types.FeatureStatus, len(section.Items))
	for _, item := range section.Items {
		if fs, ok := tool.Feature(item.Key); ok {
			out[item.Key] = &fs
		} else {
			out[item.Key] = nil
		}
	}
	return out
}

// set is a string set keyed by identity
type set map[string]struct{}

func (s set) has(k string) bool {
	_, ok := s[k]
	return ok
}

func (s set) set(k string, on bool) {
	if on {
		s[k] = struct{}{}
	} else {
		delete(s, k)
	}
}

func (s set) toggle(k string) {
	s.set(k, !s.has(k))
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
