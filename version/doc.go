// Package version carries build information for the depengine binary.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/depengine/version.Version=1.0.0" ./cmd/depengine
//
// Fields left empty are filled from the module's embedded VCS settings.
package version
