// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/toeirei/ledgermaster/internal/i18n"
)

func TestError_MessageAndIs(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeInternal, "transfer", cause)
	if got := err.Error(); got != "transfer: INTERNAL: disk full" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected errors.Is to match ErrInternal")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound to match")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if Wrap(CodeInternal, "x", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}

	e := Newf(CodeForbidden, "transfer", "%s may not debit %d", "bob", 3)
	if e.Error() != "transfer: bob may not debit 3" {
		t.Fatalf("Newf Error() = %q", e.Error())
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), CodeInternal},
		{"typed", New(CodeInsufficientFunds, "op", "m"), CodeInsufficientFunds},
		{"wrapped", fmt.Errorf("outer: %w", New(CodeNotFound, "op", "m")), CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalize_EveryCodeIsTranslated(t *testing.T) {
	for _, lang := range []string{"en", "de"} {
		i18n.Init(lang)
		for _, c := range Codes() {
			msg := Localize(New(c, "op", "internal detail"))
			if msg == "" || msg == c.MessageID() {
				t.Fatalf("%s: code %s has no translation", lang, c)
			}
		}
	}
	i18n.Init("en")
	if Localize(nil) != "" {
		t.Fatalf("Localize(nil) should be empty")
	}
	if got := Localize(New(CodeForbidden, "op", "secret")); got != "You are not allowed to do that." {
		t.Fatalf("Localize leaked or mistranslated: %q", got)
	}
}
