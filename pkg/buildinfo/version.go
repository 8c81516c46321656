// Package buildinfo reports which mindmap build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/mindmap/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/mindmap/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/mindmap
//
// Builds without ldflags (go install, go run) fall back to the module
// version and VCS stamps the toolchain embeds in the binary.
//
// Version also scopes cache keys, so snapshots written by one build are
// never served to another.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const unset = "dev"

var (
	Version = unset
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill copies embedded build metadata into variables ldflags left unset.
func fill(info *debug.BuildInfo) {
	if Version == unset && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		case "vcs.modified":
			if s.Value == "true" && Version == unset {
				Version = unset + "+dirty"
			}
		}
	}
}

// Short returns the commit shortened to 12 characters.
func Short() string {
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}

// String returns a multi-line description of the build.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Short(), Date)
}

// Template returns a cobra version template.
func Template() string {
	return "{{.Name}} " + Version + " (" + Short() + ", " + Date + ")\n"
}
