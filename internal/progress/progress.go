package progress

import (
	"os"
	"strings"
	"time"
)

// Progress is the verbose reporting front end used by the catalog loader
type Progress struct {
	enabled bool
	handler Handler
	started time.Time
}

// New creates a new progress reporter
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewSimpleHandler(os.Stderr)
	}
	return &Progress{
		enabled: enabled,
		handler: handler,
	}
}

// Disabled returns a reporter that drops every event
func Disabled() *Progress {
	return &Progress{handler: nopHandler{}}
}

// Report sends an event to the handler (only if enabled)
func (p *Progress) Report(event Event) {
	if p == nil || !p.enabled {
		return
	}
	p.handler.Handle(event)
}

func (p *Progress) LoadStart(source string, excludePatterns []string) {
	if p != nil {
		p.started = time.Now()
	}
	p.Report(Event{
		Type: EventLoadStart,
		Path: source,
		Info: strings.Join(excludePatterns, ", "),
	})
}

func (p *Progress) LoadComplete(files, tools int) {
	var d time.Duration
	if p != nil && !p.started.IsZero() {
		d = time.Since(p.started)
	}
	p.Report(Event{
		Type:      EventLoadComplete,
		FileCount: files,
		ToolCount: tools,
		Duration:  d,
	})
}

func (p *Progress) CategoryStart(category, pattern string) {
	p.Report(Event{
		Type:     EventCategoryStart,
		Category: category,
		Info:     pattern,
	})
}

func (p *Progress) FileLoaded(category, path, toolID string) {
	p.Report(Event{
		Type:     EventFileLoaded,
		Category: category,
		Path:     path,
		Info:     toolID,
	})
}

func (p *Progress) Skipped(path, reason string) {
	p.Report(Event{
		Type:   EventSkipped,
		Path:   path,
		Reason: reason,
	})
}

func (p *Progress) Info(message string) {
	p.Report(Event{
		Type: EventInfo,
		Info: message,
	})
}

type nopHandler struct{}

func (nopHandler) Handle(Event) {}
