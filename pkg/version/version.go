// Package version exposes the build version of the gitfolio binary.
package version

// Version is set at build time via -ldflags.
var Version = "0.0.0-dev"

// GetVersion returns the build version.
func GetVersion() string {
	return Version
}
