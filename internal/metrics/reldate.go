package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/selfhostedhub/compare/internal/types"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 forms found in tool records.
// Empty strings and the N/A sentinel are reported as not ok.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == types.NotAvailable {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSince returns the elapsed days between ts and now, rounded up and
// taken as an absolute value
func DaysSince(ts string, now time.Time) (int, bool) {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return 0, false
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24)), true
}

// RelativeDate turns a timestamp into a coarse phrase such as "3 days ago".
// Units come from floor division of the elapsed time, with 30-day months and
// 365-day years; there is no calendar arithmetic.
func RelativeDate(ts string, now time.Time) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return types.NotAvailable
	}

	seconds := int64(math.Floor(now.Sub(t).Seconds()))
	if seconds < 0 {
		return "just now"
	}

	minutes := seconds / 60
	if minutes < 60 {
		if minutes <= 1 {
			return "just now"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		if hours == 1 {
			return "an hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	if days < 7 {
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	}

	weeks := days / 7
	if weeks < 4 {
		if weeks == 1 {
			return "last week"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}

	// 28 and 29 days fall between the week and month buckets
	months := days / 30
	if months < 12 {
		if months <= 1 {
			return "last month"
		}
		return fmt.Sprintf("%d months ago", months)
	}

	years := days / 365
	if years <= 1 {
		return "last year"
	}
	return fmt.Sprintf("%d years ago", years)
}
