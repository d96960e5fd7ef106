// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package money converts between major-unit amounts entered by humans
// ("12.50") and the smallest-unit integers stored by the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorDigits is the number of fractional digits of the ledger currency.
const MinorDigits = 2

var (
	// ErrInvalidAmount is returned for unparsable or over-precise input.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOutOfRange is returned when an amount does not fit into int64.
	ErrOutOfRange = errors.New("amount out of range")
)

var scale = decimal.New(1, MinorDigits)

// Parse converts a major-unit string into minor units. Thousands separators
// ("_" and ",") are ignored. More than MinorDigits fractional digits is an
// error rather than a silent rounding.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("_", "", ",", "").Replace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	minor := d.Mul(scale)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, MinorDigits)
	}
	if !minor.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return minor.IntPart(), nil
}

// ParsePositive is Parse restricted to amounts greater than zero.
func ParsePositive(s string) (int64, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	return v, nil
}

// Format renders minor units as a major-unit string with MinorDigits decimals.
func Format(minor int64) string {
	return decimal.New(minor, -MinorDigits).StringFixed(MinorDigits)
}
