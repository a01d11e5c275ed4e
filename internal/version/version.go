// Package version reports the mdrender build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X git.home.luguber.info/inful/mdrender/internal/version.Version=v0.1.0".
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version for --version output. Values not injected at
// link time fall back to the module build info when available.
func String() string {
	version, commit, built := Version, GitCommit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "unknown" && info.Main.Version != "" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "unknown":
				commit = s.Value
			case s.Key == "vcs.time" && built == "unknown":
				built = s.Value
			}
		}
	}
	return fmt.Sprintf("mdrender %s (commit %s, built %s)", version, commit, built)
}
