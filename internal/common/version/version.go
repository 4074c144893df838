package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information - set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns formatted version information. gitVersion is the output of
// "git version" and is left out when empty.
func Info(gitVersion string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "gitkit version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if gitVersion = strings.TrimSpace(strings.TrimPrefix(gitVersion, "git version")); gitVersion != "" {
		fmt.Fprintf(&b, "\n  git: %s", gitVersion)
	}
	return b.String()
}

// Short returns just the version string
func Short() string {
	return Version
}
