package metrics

import (
	"time"

	"github.com/selfhostedhub/compare/internal/types"
)

const (
	ClosedSource = "Closed Source"
	Unknown      = "Unknown"
)

// Activity tiers, by days since the last commit
const (
	ActivityVeryActive = "Very Active"
	ActivityActive     = "Active"
	ActivityMaintained = "Maintained"
	ActivityInactive   = "Inactive"
)

// Popularity tiers, by star count
const (
	PopularityExtreme = "Extremely Popular"
	PopularityVery    = "Very Popular"
	PopularityPopular = "Popular"
	PopularityGrowing = "Growing"
	PopularityNiche   = "Niche"
)

// Popularity labels a tool as "<activity> & <popularity>".
// Closed source tools are never classified further.
func Popularity(tool *types.Tool, now time.Time) string {
	if !tool.OpenSource {
		return ClosedSource
	}
	if tool.GitHubStats == nil {
		return Unknown
	}
	return Activity(tool.GitHubStats.LastCommit, now) + " & " + StarTier(tool.GitHubStats.Stars)
}

// Activity maps the last commit date to an activity tier.
// Missing, N/A or unparseable dates are Inactive.
func Activity(lastCommit string, now time.Time) string {
	days, ok := DaysSince(lastCommit, now)
	if !ok {
		return ActivityInactive
	}
	switch {
	case days <= 30:
		return ActivityVeryActive
	case days <= 90:
		return ActivityActive
	case days <= 180:
		return ActivityMaintained
	default:
		return ActivityInactive
	}
}

// StarTier maps a star count to a popularity tier
func StarTier(stars int) string {
	switch {
	case stars > 20000:
		return PopularityExtreme
	case stars > 5000:
		return PopularityVery
	case stars > 1000:
		return PopularityPopular
	case stars > 100:
		return PopularityGrowing
	default:
		return PopularityNiche
	}
}
