package progress

import "time"

// EventType identifies a catalog loading phase
type EventType int

const (
	EventLoadStart EventType = iota
	EventLoadComplete
	EventCategoryStart
	EventFileLoaded
	EventSkipped
	EventInfo
)

// Event represents something that happened while loading the catalog.
// Path is the data source or record file; Info carries the free-form detail.
type Event struct {
	Type      EventType
	Path      string
	Category  string
	Info      string
	Reason    string
	FileCount int
	ToolCount int
	Duration  time.Duration
}

// Handler turns events into output
type Handler interface {
	Handle(event Event)
}

// timing thresholds, slowest first
var timingIcons = []struct {
	min  time.Duration
	icon string
}{
	{time.Second, "🔴"},
	{100 * time.Millisecond, "🟡"},
	{0, "🟢"},
}

func getTimingIcon(d time.Duration) string {
	for _, t := range timingIcons {
		if d >= t.min {
			return t.icon
		}
	}
	return timingIcons[len(timingIcons)-1].icon
}
