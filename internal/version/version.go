// Package version reports build information for the garden binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/example/garden/internal/version.Commit=...".
var (
	Commit    = ""
	BuildTime = "unknown"
)

// String returns "garden dev (commit: abc1234, built: ...)". Without ldflags
// the commit comes from the VCS stamp Go embeds in module builds.
func String() string {
	return fmt.Sprintf("garden dev (commit: %s, built: %s)", commit(), BuildTime)
}

func commit() string {
	c := Commit
	if c == "" {
		c = vcsRevision()
	}
	if c == "" {
		return "unknown"
	}
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
