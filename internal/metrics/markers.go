package metrics

import (
	"math"
	"time"
)

const (
	hotStarsThreshold = 1000
	hotForksThreshold = 200
	recentCommitDays  = 30
)

// HotMarker is shown next to values that deserve a highlight
const HotMarker = "🔥"

// StarsHot reports whether a star count earns the highlight: above the
// absolute threshold, or the (non-zero) maximum of the visible row
func StarsHot(stars, maxStars int) bool {
	return stars > hotStarsThreshold || (stars > 0 && stars == maxStars)
}

// ForksHot is StarsHot for fork counts
func ForksHot(forks, maxForks int) bool {
	return forks > hotForksThreshold || (forks > 0 && forks == maxForks)
}

// RecentCommit reports whether the last commit is at most 30 days old
func RecentCommit(lastCommit string, now time.Time) bool {
	days, ok := DaysSince(lastCommit, now)
	return ok && days <= recentCommitDays
}

// IsLowest reports whether a parsed size is the finite minimum of its row
func IsLowest(value, min float64) bool {
	return !math.IsInf(value, 1) && value == min
}

// Marker returns HotMarker when cond holds, otherwise ""
func Marker(cond bool) string {
	if cond {
		return HotMarker
	}
	return ""
}
