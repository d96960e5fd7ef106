// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package buildvars

import "testing"

func TestInfo(t *testing.T) {
	oldV, oldC, oldD := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = oldV, oldC, oldD })

	Version, GitCommit, BuildDate = "", "", ""
	if got := Info(); got != "dev" {
		t.Fatalf("Info() = %q, want dev", got)
	}
	Version, GitCommit, BuildDate = "v1.0.0", "abc123", "2026-01-02"
	if got := Info(); got != "v1.0.0 (abc123) built 2026-01-02" {
		t.Fatalf("Info() = %q", got)
	}
	if got := VersionOrDefault("x"); got != "v1.0.0" {
		t.Fatalf("VersionOrDefault() = %q", got)
	}
}
