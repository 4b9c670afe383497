package main

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2026-01-01"
// by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the version string shown by --version and served
// to MCP clients. Binaries built with "go install" carry no ldflags, so
// the module version from the build info is used instead.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		if version == "dev" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				return info.Main.Version
			}
		}
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit[:min(len(commit), 7)], date)
}
