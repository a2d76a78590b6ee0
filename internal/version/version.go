// Package version holds build information injected at link time.
package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/dotsync/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/dotsync/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/dotsync/internal/version.Date={{.Date}}
)

// Info is the one-line version shown by --version
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
