package metadata

import (
	"time"
)

// ReportMetadata describes how a structured table report was produced
type ReportMetadata struct {
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	DataSource   string `json:"data_source" yaml:"data_source"`
	SpecVersion  string `json:"specVersion" yaml:"specVersion"` // Report format version
	DurationMs   int64  `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	ToolCount    int    `json:"tool_count" yaml:"tool_count"`       // Records in the category
	VisibleCount int    `json:"visible_count" yaml:"visible_count"` // Records left after filters
}

// NewReportMetadata creates metadata stamped with the given time
func NewReportMetadata(dataSource, version string, now time.Time) *ReportMetadata {
	return &ReportMetadata{
		Timestamp:   now.UTC().Format(time.RFC3339),
		DataSource:  dataSource,
		SpecVersion: version,
	}
}

// SetDuration sets the load and render duration in milliseconds
func (m *ReportMetadata) SetDuration(duration time.Duration) {
	m.DurationMs = duration.Milliseconds()
}

// SetCounts sets the total and visible tool counts
func (m *ReportMetadata) SetCounts(total, visible int) {
	m.ToolCount = total
	m.VisibleCount = visible
}
