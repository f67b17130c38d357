package buildinfo

import "strings"

// These variables are intended to be set via -ldflags at build time:
//
//	-X 'github.com/m3rciful/ratebot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/ratebot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/ratebot/core/buildinfo.Date=2025-08-30T12:00:00Z'
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// Info is the JSON-friendly view of the build metadata.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
}

// Current returns the build metadata of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String renders build metadata as "version (commit, date)".
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.Version)
	b.WriteString(" (")
	b.WriteString(i.Commit)
	if i.Date != "" {
		b.WriteString(", ")
		b.WriteString(i.Date)
	}
	b.WriteString(")")
	return b.String()
}
