// Package version provides build version information for tvmdbg.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "dev"

	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"

	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = runtime.Version()
)

// String renders the version block printed by 'tvmdbg version'.
func String() string {
	return fmt.Sprintf("tvmdbg version %s\nGit commit: %s\nBuild date: %s\nGo version: %s",
		resolvedVersion(), GitCommit, BuildDate, GoVersion)
}

// resolvedVersion falls back to the module version recorded by
// 'go install' when no version was set at link time.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
