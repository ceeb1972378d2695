// Package version carries the build version reported by the health check.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/mikepea/tinylink/pkg/tinylink/version.Version=..."
var Version = "1.0"
