// Package misc carries build time information about the program.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X scopecss/misc.version=... -X scopecss/misc.gitHash=..."
var (
	appName = "scopecss"
	version = "dev"
	gitHash = ""
)

// GetAppName returns application name.
func GetAppName() string {
	return appName
}

// GetVersion returns application version.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit the program was built from. When not set at
// link time VCS information recorded by the toolchain is used.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
