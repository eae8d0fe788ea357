package metrics

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/selfhostedhub/compare/internal/types"
)

// canonicalVersion turns "10.9", "v10.9.0" or "v2026.2.0" into a semver
// string, or "" when the text is not a version
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// VerificationLag reports whether a feature was verified against an older
// release than current. Unverified features and unparseable versions never lag.
func VerificationLag(fs types.FeatureStatus, current string) bool {
	ver := fs.Verification()
	if ver == nil {
		return false
	}
	verified := canonicalVersion(ver.VerifiedAtVersion)
	latest := canonicalVersion(current)
	if verified == "" || latest == "" {
		return false
	}
	return semver.Compare(verified, latest) < 0
}

// CurrentVersion returns the release a tool record was last checked against
func CurrentVersion(tool *types.Tool) string {
	if tool.Meta == nil || tool.Meta.LastCheck == nil {
		return ""
	}
	return tool.Meta.LastCheck.Version
}
