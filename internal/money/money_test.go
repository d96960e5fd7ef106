// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package money

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"12.50", 1250},
		{"12.5", 1250},
		{"2000", 200000},
		{"1,000.01", 100001},
		{"1_000", 100000},
		{"-3.25", -325},
		{" 7 ", 700},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := Parse(c.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("Parse(%q) = %d, want %d", c.in, got, c.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "1e400"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
	if _, err := Parse("99999999999999999999"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestParsePositive(t *testing.T) {
	if _, err := ParsePositive("0"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := ParsePositive("-1"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
	if v, err := ParsePositive("0.01"); err != nil || v != 1 {
		t.Fatalf("ParsePositive(0.01) = %d, %v", v, err)
	}
}

func TestFormat(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		1:      "0.01",
		1250:   "12.50",
		-325:   "-3.25",
		500000: "5000.00",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Errorf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}
