// Package buildinfo holds version information stamped in with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/roomgrid/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/roomgrid/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/roomgrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Unstamped builds report "dev", "none" and "unknown".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// CacheScope prefixes cache keys so that a new release never reads entries
// written by an older generator.
func CacheScope() string {
	return "v=" + Version + ":"
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
