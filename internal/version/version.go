// Package version reports the nodeedit build version.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/nodeedit/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/nodeedit/internal/version.Commit=abc123"
//
// Unset values are filled from the embedded build info.
var (
	Version = ""
	Commit  = ""
)

const develVersion = "(devel)"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fill takes the module version recorded by go install and the VCS stamp
// recorded by go build in a checkout.
func fill(info *debug.BuildInfo) {
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	if Version != "" {
		return
	}
	if v := info.Main.Version; v != "" && v != develVersion {
		Version = v
		return
	}
	if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
		Version = "dev-" + t.Format("20060102")
	}
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent is the agent string sent to the database server.
func UserAgent() string {
	return "nodeedit/" + Version
}
