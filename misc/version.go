// Package misc keeps program identity: name, version and build hash.
package misc

import (
	"runtime/debug"
)

// set with -ldflags "-X halc/misc.version=..." during release builds
var (
	version = "dev"
	appName = "halc"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns short vcs revision recorded by the go toolchain, with
// "+dirty" suffix for modified trees.
func GetGitHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var (
		rev      string
		modified bool
	)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(rev) == 0 {
		return "unknown"
	}
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if modified {
		rev += "+dirty"
	}
	return rev
}
