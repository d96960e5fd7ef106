// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks for missing or orphaned translation keys. It scans the
// Go sources for i18n.T() calls and compares them against the YAML locale
// files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// dynamicPrefixes are key namespaces built at runtime (error codes) and
// therefore never seen as literals.
var dynamicPrefixes = []string{"error."}

func main() {
	fmt.Println("Running i18n linter...")

	usedKeys, err := findUsedKeys(projectRoot)
	if err != nil {
		fmt.Printf("error finding used keys: %v\n", err)
		os.Exit(1)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		fmt.Printf("error loading primary locale %s: %v\n", primaryLocale, err)
		os.Exit(1)
	}
	fmt.Printf("%d keys used in code, %d keys in %s.\n\n", len(usedKeys), len(primaryKeys), primaryLocale)

	failed := false

	fmt.Println("--- Keys used in code but missing from the primary locale ---")
	if missing := difference(usedKeys, primaryKeys); len(missing) > 0 {
		failed = true
		for _, k := range missing {
			fmt.Printf("  - Undefined: %s\n", k)
		}
	} else {
		fmt.Println("  None found.")
	}

	fmt.Println("\n--- Orphaned keys (in primary locale but not used) ---")
	orphaned := difference(primaryKeys, usedKeys)
	for _, k := range orphaned {
		fmt.Printf("  - Orphaned: %s\n", k)
	}
	if len(orphaned) == 0 {
		fmt.Println("  None found.")
	}

	fmt.Println("\n--- Keys missing from other locales ---")
	files, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		fmt.Printf("error finding locale files: %v\n", err)
		os.Exit(1)
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Printf("  %s: %v\n", file, err)
			failed = true
			continue
		}
		missing := difference(primaryKeys, keys)
		if len(missing) == 0 {
			fmt.Printf("  %s: all keys present.\n", file)
			continue
		}
		failed = true
		for _, k := range missing {
			fmt.Printf("  %s: missing %s\n", file, k)
		}
	}

	if failed {
		fmt.Println("\nFound issues that need to be addressed.")
		os.Exit(1)
	}
	fmt.Println("\nAll translation files are consistent.")
}

// difference returns the sorted keys of a that are not in b. Dynamic keys
// are never reported as unused.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			continue
		}
		if isDynamic(k) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isDynamic(key string) bool {
	for _, p := range dynamicPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// findUsedKeys scans all non-test .go files for i18n.T("key") calls.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	re := regexp.MustCompile(`i18n\.T\("([^"]+)"`)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if name == "tools" || (strings.HasPrefix(name, "_") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range re.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a locale file and returns its flattened keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", m, keys)
	return keys, nil
}

// flattenYAML joins nested map keys with dots.
func flattenYAML(prefix string, v interface{}, keys map[string]struct{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, child, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
