package util

import (
	"fmt"
	"sort"
	"strings"
)

// ValidOutputFormats defines the supported output formats
var ValidOutputFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// ValidColorModes defines the accepted --color values
var ValidColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

func checkChoice(kind, value string, valid map[string]bool) error {
	if valid[NormalizeFormat(value)] {
		return nil
	}
	return fmt.Errorf("invalid %s: %q (valid: %s)", kind, value, strings.Join(sortedKeys(valid), ", "))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateOutputFormat checks --format, case-insensitively
func ValidateOutputFormat(format string) error {
	return checkChoice("format", format, ValidOutputFormats)
}

// ValidateColorMode checks --color, case-insensitively
func ValidateColorMode(mode string) error {
	return checkChoice("color mode", mode, ValidColorModes)
}

// GetValidFormats returns the supported output formats, sorted
func GetValidFormats() []string {
	return sortedKeys(ValidOutputFormats)
}

// NormalizeFormat lowercases and trims a flag value
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// SplitList flattens repeated and comma separated flag values, trimming
// blanks and dropping duplicates while keeping the first occurrence
func SplitList(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}
