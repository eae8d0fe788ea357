package metrics

import "strings"

// LicenseCategory is the colour bucket of a license string
type LicenseCategory string

const (
	LicenseProprietary LicenseCategory = "proprietary"
	LicenseCopyleft    LicenseCategory = "copyleft"
	LicensePermissive  LicenseCategory = "permissive"
)

var copyleftMarkers = []string{"gpl", "mpl", "eupl", "sspl", "osl", "cddl", "epl"}

// ClassifyLicense buckets a license by case-insensitive substring match.
// Proprietary wins over everything; GPL-family markers are copyleft;
// anything else (MIT, Apache, BSD, ...) is permissive.
func ClassifyLicense(license string) LicenseCategory {
	lower := strings.ToLower(license)
	if strings.Contains(lower, "proprietary") || strings.Contains(lower, "closed") {
		return LicenseProprietary
	}
	for _, marker := range copyleftMarkers {
		if strings.Contains(lower, marker) {
			return LicenseCopyleft
		}
	}
	return LicensePermissive
}

// Color returns the ANSI 256 colour used for the bucket
func (c LicenseCategory) Color() string {
	switch c {
	case LicenseProprietary:
		return "196"
	case LicenseCopyleft:
		return "220"
	default:
		return "42"
	}
}
