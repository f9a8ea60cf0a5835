package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// APIVersion is the version of the HTTP API
	APIVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionInfo returns a human readable version string including the Go
// runtime the binary was built with.
func VersionInfo() string {
	return fmt.Sprintf("salesdash %s (commit %s, built %s, %s)",
		Version, GitCommit, BuildTime, runtime.Version())
}
