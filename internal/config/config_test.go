// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	cfg "github.com/toeirei/ledgermaster/internal/config"
)

// isolate points the user config dir at a temp dir and moves into another
// temp dir so no stray ledgermaster.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Chdir(t.TempDir())
	return tmp
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	isolate(t)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "sqlite" || got.Database.Dsn != "./ledgermaster.db" {
		t.Fatalf("unexpected database defaults: %+v", got.Database)
	}
	if got.Ledger.ClearingNumber != "920" || got.Ledger.ImplicitRole != "none" {
		t.Fatalf("unexpected ledger defaults: %+v", got.Ledger)
	}
	if len(got.Ledger.DebitRoles) != 1 || got.Ledger.DebitRoles[0] != "owner" {
		t.Fatalf("unexpected debit roles: %v", got.Ledger.DebitRoles)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	isolate(t)
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/db\nlanguage: de\nledger:\n  implicit_role: contributor\n  debit_roles: [owner, admin]\n"
	file := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
	if got.Ledger.ImplicitRole != "contributor" {
		t.Fatalf("expected contributor implicit role, got %q", got.Ledger.ImplicitRole)
	}
	if len(got.Ledger.DebitRoles) != 2 {
		t.Fatalf("expected two debit roles, got %v", got.Ledger.DebitRoles)
	}
	// untouched keys keep their defaults
	if got.Ledger.ClearingNumber != "920" {
		t.Fatalf("expected default clearing number, got %q", got.Ledger.ClearingNumber)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("LEDGERMASTER_DATABASE_DSN", "/tmp/from-env.db")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Dsn != "/tmp/from-env.db" {
		t.Fatalf("expected env dsn, got %q", got.Database.Dsn)
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	isolate(t)
	cmd := &cobra.Command{}
	cmd.Flags().String("database.dsn", "", "")
	if err := cmd.Flags().Set("database.dsn", "flag.db"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](cmd, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Dsn != "flag.db" {
		t.Fatalf("expected flag dsn, got %q", got.Database.Dsn)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &missing); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	isolate(t)

	c := cfg.Default()
	path, err := cfg.WriteConfigFile(&c, false)
	if err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}
	want, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	// The written file must round-trip through LoadConfig.
	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig of written file failed: %v", err)
	}
	if got.Ledger.ClearingNumber != c.Ledger.ClearingNumber || got.Database.Type != c.Database.Type {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*cfg.Config)
		ok     bool
	}{
		{"default", func(*cfg.Config) {}, true},
		{"bad db type", func(c *cfg.Config) { c.Database.Type = "oracle" }, false},
		{"empty dsn", func(c *cfg.Config) { c.Database.Dsn = " " }, false},
		{"negative pool", func(c *cfg.Config) { c.Database.MaxOpenConns = -1 }, false},
		{"bad log format", func(c *cfg.Config) { c.Log.Format = "xml" }, false},
		{"alpha clearing number", func(c *cfg.Config) { c.Ledger.ClearingNumber = "9a0" }, false},
		{"negative start balance", func(c *cfg.Config) { c.Ledger.StartBalance = -5 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg.Default()
			tc.mutate(&c)
			err := c.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
