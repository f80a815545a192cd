package version

import "strings"

// Version is set at build time from the release tag with -ldflags.
var Version = "development"

// GetFormattedVersion returns the current version with the 'v' tag prefix
// removed.
func GetFormattedVersion() string {
	return strings.TrimPrefix(Version, "v")
}
