// Package version holds build information set through -ldflags.
package version

// Version is overwritten at build time:
//
//	go build -ldflags "-X github.com/mrengworks/catalog/internal/version.Version=1.2.3"
var Version = "1.0.0"
