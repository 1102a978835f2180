package version

import "fmt"

var (
	// Version is the release of the scanner binary. Overridden at build time
	// with -ldflags "-X surebet-scanner/internal/version.Version=...".
	Version = "dev"
	// Commit is the git commit hash. Overridden at build time.
	Commit = "unknown"
	// BuildDate is the build timestamp. Overridden at build time.
	BuildDate = "unknown"
)

// String is the one-line build description used by the CLI and the API.
func String() string {
	return fmt.Sprintf("surebet %s (commit %s, built %s)", Version, Commit, BuildDate)
}
