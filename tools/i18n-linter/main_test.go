// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadKeysFromLocale_Flattens(t *testing.T) {
	p := filepath.Join(t.TempDir(), "en.yaml")
	src := "cli:\n  hello: \"Hi\"\n  nested:\n    deep: \"x\"\ntop: \"y\"\n"
	if err := os.WriteFile(p, []byte(src), 0600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	got, err := loadKeysFromLocale(p)
	if err != nil {
		t.Fatalf("loadKeysFromLocale failed: %v", err)
	}
	for _, k := range []string{"cli.hello", "cli.nested.deep", "top"} {
		if _, ok := got[k]; !ok {
			t.Fatalf("expected key %q, got %v", k, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 keys, got %v", got)
	}
}

func TestFindUsedKeys_SkipsTestsAndUnderscoreDirs(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, src string) {
		t.Helper()
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(src), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("sub/a.go", `package foo
func f() { _ = i18n.T("cli.used", 1) }`)
	write("sub/a_test.go", `package foo
func g() { _ = i18n.T("cli.only_in_test") }`)
	write("_examples/b.go", `package bar
func h() { _ = i18n.T("cli.ignored") }`)

	used, err := findUsedKeys(dir)
	if err != nil {
		t.Fatalf("findUsedKeys failed: %v", err)
	}
	want := map[string]struct{}{"cli.used": {}}
	if !reflect.DeepEqual(used, want) {
		t.Fatalf("used keys = %v, want %v", used, want)
	}
}

func TestDifference_IgnoresDynamicKeys(t *testing.T) {
	a := map[string]struct{}{"cli.a": {}, "cli.b": {}, "error.not_found": {}}
	b := map[string]struct{}{"cli.a": {}}
	got := difference(a, b)
	if !reflect.DeepEqual(got, []string{"cli.b"}) {
		t.Fatalf("difference = %v", got)
	}
}
