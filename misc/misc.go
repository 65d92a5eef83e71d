// Package misc provides small process-wide facts (name, version, build hash)
// used by logging and CLI banners.
package misc

import "runtime/debug"

var (
	appName = "docbc"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns the program name used for log files and embedded data.
func GetAppName() string {
	return appName
}

// GetVersion returns the build version, falling back to Go module build info
// when not set through linker flags.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return version
}

// GetGitHash returns the build's VCS revision when available.
func GetGitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return gitHash
}
