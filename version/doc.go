// Package version reports build information for the tabkit binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/tabkit/version.Version=1.2.0" ./cmd/tabkit
//
// Fields left empty are filled from the VCS stamp the Go toolchain embeds.
package version
