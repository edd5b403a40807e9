// Package version holds build metadata.
package version

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/ndewijer/Broker-Statement-Importer/internal/version.Version=..."
var Version = "dev"
