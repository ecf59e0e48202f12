package version

import "fmt"

// Build metadata, injected with
// go build -ldflags "-X github.com/pysugar/gato-admin/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, Commit, BuildTime)
}

// UserAgent identifies a gato component in outgoing requests.
func UserAgent(component string) string {
	return component + "/" + Version
}
