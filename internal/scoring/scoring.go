package scoring

import (
	"fmt"
	"strings"

	"github.com/selfhostedhub/compare/internal/types"
)

// PaidCredit decides how much a Paid feature is worth.
// Historical versions of the comparison disagreed on this, so it is a policy.
type PaidCredit int

const (
	// PaidHalfCredit counts Paid like Partial (default)
	PaidHalfCredit PaidCredit = iota
	// PaidFullCredit counts Paid like Yes
	PaidFullCredit
)

// ParsePaidCredit converts "half" or "full" into a policy
func ParsePaidCredit(s string) (PaidCredit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "half":
		return PaidHalfCredit, nil
	case "full":
		return PaidFullCredit, nil
	default:
		return PaidHalfCredit, fmt.Errorf("invalid paid credit: %s. Valid values are: half, full", s)
	}
}

func (p PaidCredit) String() string {
	if p == PaidFullCredit {
		return "full"
	}
	return "half"
}

// Weight returns the contribution of a single status
func (p PaidCredit) Weight(s types.Status) float64 {
	switch s {
	case types.StatusYes:
		return 1
	case types.StatusPartial:
		return 0.5
	case types.StatusPaid:
		if p == PaidFullCredit {
			return 1
		}
		return 0.5
	default:
		return 0
	}
}

// Score is a weighted count of satisfied features out of the applicable ones
type Score struct {
	Score float64 `json:"score" yaml:"score"`
	Total int     `json:"total" yaml:"total"`
}

// Level buckets a score for display
type Level string

const (
	LevelComplete Level = "complete"
	LevelMajority Level = "majority"
	LevelMinority Level = "minority"
)

// Calculate scores a feature mapping. Nil entries are absent and excluded
// from the total.
func Calculate(features map[string]*types.FeatureStatus, policy PaidCredit) Score {
	var s Score
	for _, fs := range features {
		if fs == nil {
			continue
		}
		s.Total++
		s.Score += policy.Weight(fs.Unwrap())
	}
	return s
}

// Ratio returns score/total, zero for an empty score
func (s Score) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return s.Score / float64(s.Total)
}

// Level classifies the score: all satisfied, more than half, or less
func (s Score) Level() Level {
	switch {
	case s.Total > 0 && s.Score == float64(s.Total):
		return LevelComplete
	case s.Score > float64(s.Total)/2:
		return LevelMajority
	default:
		return LevelMinority
	}
}

func (s Score) String() string {
	return fmt.Sprintf("%s/%d", formatScore(s.Score), s.Total)
}

func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
