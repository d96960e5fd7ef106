// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Set at link time, e.g.
// -ldflags "-X github.com/toeirei/ledgermaster/buildvars.Version=v1.2.0".
// They stay empty for local or development builds.
var (
	Version   string
	GitCommit string
	BuildDate string
)

// VersionOrDefault returns Version if set, otherwise def.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// Info is the one-line build description printed by `ledgermaster version`.
func Info() string {
	s := VersionOrDefault("dev")
	if GitCommit != "" {
		s += " (" + GitCommit + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
