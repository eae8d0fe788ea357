package metrics

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	sizePattern   = regexp.MustCompile(`^([\d.]+)\s*([a-zA-Z]+)$`)
)

// Every unit is a power of 1024, including the decimal-looking KB/MB/GB/TB.
var sizeMultipliers = map[string]float64{
	"B":   1,
	"KB":  1024,
	"MB":  1024 * 1024,
	"GB":  1024 * 1024 * 1024,
	"TB":  1024 * 1024 * 1024 * 1024,
	"MIB": 1024 * 1024,
	"GIB": 1024 * 1024 * 1024,
	"TIB": 1024 * 1024 * 1024 * 1024,
}

// ParseSize converts strings like "150 MB (idle)" into bytes.
// Anything it cannot read returns +Inf so it never wins a "lowest" comparison.
func ParseSize(s string) float64 {
	clean := strings.TrimSpace(parenthetical.ReplaceAllString(s, ""))
	if clean == "" {
		return math.Inf(1)
	}

	m := sizePattern.FindStringSubmatch(clean)
	if m == nil {
		return math.Inf(1)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return math.Inf(1)
	}

	mult, ok := sizeMultipliers[strings.ToUpper(m[2])]
	if !ok {
		return math.Inf(1)
	}
	return value * mult
}

// MinSize returns the smallest parsed size of the given strings, +Inf if none parse
func MinSize(values []string) float64 {
	min := math.Inf(1)
	for _, v := range values {
		if n := ParseSize(v); n < min {
			min = n
		}
	}
	return min
}

// FormatBytes renders a parsed size with binary units, "-" for +Inf
func FormatBytes(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) || n < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

// FormatCount renders a count with thousands separators
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
