// Package buildinfo holds the version stamped into fbnet at link time:
//
//	go build -ldflags "-X github.com/matzehuels/fbnet/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/fbnet/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/fbnet/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/fbnet
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by the CLI and the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Current returns the stamp of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the stamp on one line, e.g. "v0.3.0 (1a2b3c4, 2026-01-05)".
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Current().String() + "\n"
}
