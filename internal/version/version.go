// Package version describes the tabnotify build.
package version

import (
	"runtime"
	"runtime/debug"
)

// Build metadata, set with
// -ldflags "-X github.com/cristianoliveira/tabnotify/internal/version.Version=v0.3.0 -X ...Commit=abc1234".
var (
	Version = "development"
	Commit  = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	GoVersion string
	Platform  string
}

var readBuildInfo = debug.ReadBuildInfo

// Get returns the build description. Values left unset by ldflags come from
// the module build info when the binary carries one (go install).
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		return info
	}
	if info.Version == "development" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	if info.Commit == "unknown" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				info.Commit = shortRevision(s.Value)
			}
		}
	}
	return info
}

// String returns the version with the commit appended when it is known.
func (i Info) String() string {
	if i.Commit == "" || i.Commit == "unknown" {
		return i.Version
	}
	return i.Version + "+" + i.Commit
}

// String is Get().String().
func String() string {
	return Get().String()
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
